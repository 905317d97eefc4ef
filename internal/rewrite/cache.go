package rewrite

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// hashCache 记录文件内容摘要，监视模式据此区分真实编辑与
// 流水线自身写回触发的事件，避免改写回环。
type hashCache struct {
	mu   sync.Mutex
	sums map[string]uint64
}

func newHashCache() *hashCache {
	return &hashCache{sums: make(map[string]uint64)}
}

// changed 判断内容相对上次记录是否变化，变化时一并更新记录。
func (c *hashCache) changed(path string, data []byte) bool {
	sum := xxhash.Sum64(data)

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.sums[path]; ok && prev == sum {
		return false
	}
	c.sums[path] = sum
	return true
}

// update 直接记录内容摘要。写回文件后调用，抑制回环事件。
func (c *hashCache) update(path string, data []byte) {
	sum := xxhash.Sum64(data)

	c.mu.Lock()
	c.sums[path] = sum
	c.mu.Unlock()
}

// forget 移除记录。文件被删除后调用。
func (c *hashCache) forget(path string) {
	c.mu.Lock()
	delete(c.sums, path)
	c.mu.Unlock()
}
