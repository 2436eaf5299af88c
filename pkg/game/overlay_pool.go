package game

import "log"

// DefaultOverlayPoolCapacity 标题卡对象池的默认容量
const DefaultOverlayPoolCapacity = 10

// OverlayPool 标题卡对象复用池
//
// 固定容量：满员时 Release 静默丢弃多余实例（交给外围环境自行
// 回收），绝不无界增长。池只保证对象身份，复用前所有可变视觉
// 属性必须由调用方通过 ResetVisuals 完全复位。
type OverlayPool struct {
	capacity int
	items    []*TitleCardOverlay
}

// NewOverlayPool 创建对象池；capacity <= 0 时使用默认容量
func NewOverlayPool(capacity int) *OverlayPool {
	if capacity <= 0 {
		capacity = DefaultOverlayPoolCapacity
	}
	return &OverlayPool{
		capacity: capacity,
		items:    make([]*TitleCardOverlay, 0, capacity),
	}
}

// Acquire 取出一个可复用实例；池空时构造新实例
func (p *OverlayPool) Acquire() *TitleCardOverlay {
	if n := len(p.items); n > 0 {
		overlay := p.items[n-1]
		p.items = p.items[:n-1]
		return overlay
	}
	return NewTitleCardOverlay()
}

// Release 归还实例；池已满时丢弃
func (p *OverlayPool) Release(overlay *TitleCardOverlay) {
	if overlay == nil {
		return
	}
	if len(p.items) >= p.capacity {
		log.Printf("[OverlayPool] Pool full (%d), discarding released overlay", p.capacity)
		return
	}
	p.items = append(p.items, overlay)
}

// Len 返回池中待复用实例数（测试辅助）
func (p *OverlayPool) Len() int {
	return len(p.items)
}
