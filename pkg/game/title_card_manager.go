package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/unluckyjori/interior-title-cards/pkg/config"
	"github.com/unluckyjori/interior-title-cards/pkg/types"
)

// animPhase 单个元素动画状态机的阶段
//
// Idle → Delaying → FadingIn → Holding → FadingOut → Hidden
//
// 没有真实计时器：阶段由周期起点累计的经过时间推导，
// 注入合成时间即可在测试里走完整条时间线。
type animPhase int

const (
	phaseIdle animPhase = iota
	phaseDelaying
	phaseFadingIn
	phaseHolding
	phaseFadingOut
	phaseHidden
)

// String 返回阶段的字符串表示
func (p animPhase) String() string {
	switch p {
	case phaseIdle:
		return "Idle"
	case phaseDelaying:
		return "Delaying"
	case phaseFadingIn:
		return "FadingIn"
	case phaseHolding:
		return "Holding"
	case phaseFadingOut:
		return "FadingOut"
	case phaseHidden:
		return "Hidden"
	default:
		return "Unknown"
	}
}

// elementTimeline 单个元素（文字或图片槽位）的时间线
//
// 所有时间都从显示周期起点起算：
//   - [0, startDelay): 延迟，alpha = 0
//   - [startDelay, startDelay+fadeIn): 线性淡入 0 → 1
//   - 之后保持 alpha = 1，直到 hold（即 displayDuration）
//   - [hold, hold+fadeOut): 线性淡出 1 → 0
//   - 之后 Hidden
//
// fadeEnabled 为 false 时淡入淡出退化为瞬时切换；suppressed
// 的元素（文字被图片替换）全程强制 alpha = 0，不运行任何阶段。
type elementTimeline struct {
	phase       animPhase
	startDelay  float64
	fadeIn      float64
	hold        float64
	fadeOut     float64
	fadeEnabled bool
	suppressed  bool
	alpha       float64
}

// newTextTimeline 从文字元素配置构建时间线
func newTextTimeline(c *config.TextElementConfig) elementTimeline {
	return elementTimeline{
		phase:       phaseIdle,
		startDelay:  c.StartDelay,
		fadeIn:      c.FadeInDuration,
		hold:        c.DisplayDuration,
		fadeOut:     c.FadeOutDuration,
		fadeEnabled: c.FadeEnabled,
	}
}

// newImageTimeline 构建图片槽位时间线：无延迟、无淡入，
// 保持到 hold 后按元素的淡出参数退场
func newImageTimeline(hold, fadeOut float64, fadeEnabled bool) elementTimeline {
	return elementTimeline{
		phase:       phaseIdle,
		hold:        hold,
		fadeOut:     fadeOut,
		fadeEnabled: fadeEnabled,
	}
}

// advance 按周期经过时间重算阶段与透明度
func (tl *elementTimeline) advance(elapsed float64) {
	if tl.suppressed {
		tl.alpha = 0
		tl.phase = phaseHidden
		return
	}

	switch {
	case elapsed >= tl.hold:
		// 淡出窗口（淡出恰好在 displayDuration 时刻开始）
		out := elapsed - tl.hold
		if !tl.fadeEnabled || tl.fadeOut <= 0 || out >= tl.fadeOut {
			tl.alpha = 0
			tl.phase = phaseHidden
		} else {
			tl.alpha = 1 - out/tl.fadeOut
			tl.phase = phaseFadingOut
		}
	case elapsed < tl.startDelay:
		tl.alpha = 0
		tl.phase = phaseDelaying
	default:
		in := elapsed - tl.startDelay
		if tl.fadeEnabled && tl.fadeIn > 0 && in < tl.fadeIn {
			tl.alpha = in / tl.fadeIn
			tl.phase = phaseFadingIn
		} else {
			tl.alpha = 1
			tl.phase = phaseHolding
		}
	}
}

// displayCycle 一次分区进入触发对应的临时显示周期
//
// 持有卡片实例、每个元素的时间线与经过时间累计器。
// 不变式：任意时刻每个元素至多一条活动时间线；新周期开始前
// 旧周期必定已被 finishCycle 终结。
type displayCycle struct {
	overlay *TitleCardOverlay

	topText      elementTimeline
	interiorText elementTimeline

	topImage      elementTimeline
	interiorImage elementTimeline
	combinedImage elementTimeline

	elapsed float64
	// teardownAt 整张卡片的停用时刻：
	// max(两个 displayDuration) + max(两个 fadeOutDuration)，
	// 保证所有元素动画先于容器回收结束
	teardownAt float64
}

// advance 推进周期并把各时间线的透明度写回可视对象
func (c *displayCycle) advance(deltaTime float64) {
	c.elapsed += deltaTime

	c.topText.advance(c.elapsed)
	c.interiorText.advance(c.elapsed)
	c.overlay.TopText.Alpha = c.topText.alpha
	c.overlay.InteriorText.Alpha = c.interiorText.alpha

	if c.overlay.TopImage.Active {
		c.topImage.advance(c.elapsed)
		c.overlay.TopImage.Alpha = c.topImage.alpha
	}
	if c.overlay.InteriorImage.Active {
		c.interiorImage.advance(c.elapsed)
		c.overlay.InteriorImage.Alpha = c.interiorImage.alpha
	}
	if c.overlay.CombinedImage.Active {
		c.combinedImage.advance(c.elapsed)
		c.overlay.CombinedImage.Alpha = c.combinedImage.alpha
	}
}

// finished 返回周期是否已到停用时刻
func (c *displayCycle) finished() bool {
	return c.elapsed >= c.teardownAt
}

// TitleCardManager 标题卡显示状态机
//
// 核心职责：
//   - 串起一次触发的完整流程：显示名解析 → 从池取卡 → 图片
//     解析与可见性接线 → 每元素时间线动画 → 容器停用 → 归还池
//   - shown 标志保证同一张卡至多一个并发显示周期：Trigger 在
//     Showing 状态下是 no-op，重复进入同一分区不会重启周期
//   - OnLeave / Reset 只清 shown 标志、放行下一次触发，不打断
//     仍在播放的动画
//
// 调度模型：单线程协作式。宿主每帧调用 Update(deltaTime)，
// 图片解析在 Trigger 调用路径上同步完成（冷缓存时 Trigger
// 会阻塞在文件探测与解码上，这是刻意的简单性取舍），因此
// "图片已加载"与"文字淡入已开始"之间不存在竞争。
type TitleCardManager struct {
	cfg    *config.DisplayConfig
	names  *NameOverrideResolver
	images *ImageResolver
	pool   *OverlayPool
	host   Host
	zones  ZoneProvider

	cycle *displayCycle
	shown bool
}

// NewTitleCardManager 创建标题卡管理器
//
// 参数：
//   - cfg: 显示配置（外部提供，核心只读）
//   - names: 显示名解析器
//   - images: 图片解析器
//   - pool: 标题卡对象池
//   - host: 宿主容器，可为 nil（此时 Trigger 为安全 no-op）
func NewTitleCardManager(cfg *config.DisplayConfig, names *NameOverrideResolver, images *ImageResolver, pool *OverlayPool, host Host) *TitleCardManager {
	return &TitleCardManager{
		cfg:    cfg,
		names:  names,
		images: images,
		pool:   pool,
		host:   host,
	}
}

// SetZoneProvider 设置当前分区元数据协作方
func (m *TitleCardManager) SetZoneProvider(zones ZoneProvider) {
	m.zones = zones
}

// Shown 返回 shown 标志（是否处于 Showing 状态）
func (m *TitleCardManager) Shown() bool {
	return m.shown
}

// ActiveOverlay 返回当前周期的卡片实例；Idle 时为 nil
func (m *TitleCardManager) ActiveOverlay() *TitleCardOverlay {
	if m.cycle == nil {
		return nil
	}
	return m.cycle.overlay
}

// TriggerFromZone 响应分区进入事件：从协作方拉取当前分区名并触发
//
// 事件本身不携带负载；分区名缺失时以空名触发（显示固定回退名）。
func (m *TitleCardManager) TriggerFromZone() {
	if m.zones == nil {
		log.Printf("[TitleCardManager] No zone provider, ignoring zone entry")
		return
	}
	name, ok := m.zones.CurrentZoneName()
	if !ok {
		log.Printf("[TitleCardManager] Warning: current zone name unavailable")
		name = ""
	}
	m.Trigger(name)
}

// Trigger 开始一次标题卡显示周期
//
// 执行流程：
//  1. 守卫：已处于 Showing 状态则直接返回（幂等重入）
//  2. 解析显示名（覆盖 → 规范名/原始名）
//  3. 防御性终结上一周期的残留时间线，再从池取实例并完全复位
//  4. 激活卡片，按显示模式解析图片并接线可见性
//  5. 构建每元素时间线，置 shown 标志
//
// 缺少宿主容器时记录日志并安全返回，绝不向调用方抛出。
func (m *TitleCardManager) Trigger(zoneName string) {
	if m.shown {
		log.Printf("[TitleCardManager] Card already shown, ignoring trigger for %q", zoneName)
		return
	}
	if m.host == nil {
		log.Printf("[TitleCardManager] Warning: no host container, cannot show card for %q", zoneName)
		return
	}
	if m.pool == nil {
		log.Printf("[TitleCardManager] Warning: no overlay pool, cannot show card for %q", zoneName)
		return
	}

	displayName := m.names.Resolve(zoneName)

	// 稳态下这里不应再有旧周期（新触发只能发生在 shown 被清除
	// 之后），但防御性地终结残留时间线，再取池实例
	if m.cycle != nil {
		m.finishCycle()
	}

	overlay := m.pool.Acquire()
	overlay.ResetVisuals(m.cfg)
	overlay.InteriorText.Content = displayName
	overlay.Active = true

	cycle := &displayCycle{
		overlay:      overlay,
		topText:      newTextTimeline(&m.cfg.TopText),
		interiorText: newTextTimeline(&m.cfg.InteriorText),
	}

	m.wireImages(cycle, zoneName)

	cycle.teardownAt = maxFloat(m.cfg.TopText.DisplayDuration, m.cfg.InteriorText.DisplayDuration) +
		maxFloat(m.cfg.TopText.FadeOutDuration, m.cfg.InteriorText.FadeOutDuration)

	m.cycle = cycle
	m.shown = true

	// 立刻按 elapsed=0 对齐一次，让无延迟元素当帧可见
	cycle.advance(0)

	log.Printf("[TitleCardManager] Showing title card for %q (display name %q, teardown at %.2fs)",
		zoneName, displayName, cycle.teardownAt)
}

// wireImages 按显示模式解析图片并接线各元素的可见性
//
//   - top-only: 顶部图片命中 → 隐藏顶部文字，主体文字不受影响
//   - interior-only: 对称地只处理主体元素
//   - both-separate: 两个元素各自独立解析，图片命中只隐藏
//     自己对应的文字
//   - combined: 单张合并图片命中 → 同时隐藏两个文字元素；
//     未命中则两个文字全部保留
//
// 全局图片开关关闭时完全跳过解析，所有文字保持可见。
// 被图片替换的文字元素不运行淡入也不运行淡出（全程 alpha 0）。
func (m *TitleCardManager) wireImages(cycle *displayCycle, zoneName string) {
	if !m.cfg.CustomImagesEnabled {
		return
	}

	// 图片按规范分区名查找，让同一物理分区的各显示变体共用
	// 一套图片目录
	lookupName := CanonicalZoneName(zoneName)
	srcMode := m.cfg.ParsedSourceMode()

	switch m.cfg.ParsedDisplayType() {
	case types.DisplayTopOnly:
		m.attachImage(cycle, lookupName, types.RoleTop, srcMode)

	case types.DisplayInteriorOnly:
		m.attachImage(cycle, lookupName, types.RoleInterior, srcMode)

	case types.DisplayCombined:
		if asset, ok := m.images.Resolve(lookupName, types.RoleCombined, srcMode); ok {
			slot := &cycle.overlay.CombinedImage
			slot.Asset = asset
			slot.Active = true
			slot.Alpha = 1
			// 合并图片同时替换两个文字元素，退场参数取两者中
			// 较长的一侧，与容器停用时刻保持一致
			cycle.topText.suppressed = true
			cycle.interiorText.suppressed = true
			cycle.combinedImage = newImageTimeline(
				maxFloat(m.cfg.TopText.DisplayDuration, m.cfg.InteriorText.DisplayDuration),
				maxFloat(m.cfg.TopText.FadeOutDuration, m.cfg.InteriorText.FadeOutDuration),
				m.cfg.TopText.FadeEnabled || m.cfg.InteriorText.FadeEnabled,
			)
		}

	default: // both-separate
		m.attachImage(cycle, lookupName, types.RoleTop, srcMode)
		m.attachImage(cycle, lookupName, types.RoleInterior, srcMode)
	}
}

// attachImage 解析单个角色的图片；命中时激活槽位并隐藏对应文字
func (m *TitleCardManager) attachImage(cycle *displayCycle, lookupName string, role types.ImageRole, srcMode types.SourceMode) {
	asset, ok := m.images.Resolve(lookupName, role, srcMode)
	if !ok {
		return
	}

	switch role {
	case types.RoleTop:
		slot := &cycle.overlay.TopImage
		slot.Asset = asset
		slot.Active = true
		slot.Alpha = 1
		cycle.topText.suppressed = true
		cycle.topImage = newImageTimeline(
			m.cfg.TopText.DisplayDuration, m.cfg.TopText.FadeOutDuration, m.cfg.TopText.FadeEnabled)

	case types.RoleInterior:
		slot := &cycle.overlay.InteriorImage
		slot.Asset = asset
		slot.Active = true
		slot.Alpha = 1
		cycle.interiorText.suppressed = true
		cycle.interiorImage = newImageTimeline(
			m.cfg.InteriorText.DisplayDuration, m.cfg.InteriorText.FadeOutDuration, m.cfg.InteriorText.FadeEnabled)
	}
}

// Update 按帧推进当前显示周期
//
// 周期到达停用时刻后：停用容器、归还对象池。注意 shown 标志
// 不在这里清除，它由 OnLeave/Reset 管理，门禁的是"新触发"，
// 不是动画本身。
//
// 参数：
//   - deltaTime: 自上一帧以来经过的时间（秒）
func (m *TitleCardManager) Update(deltaTime float64) {
	if m.cycle == nil {
		return
	}

	m.cycle.advance(deltaTime)
	if m.cycle.finished() {
		m.finishCycle()
	}
}

// OnLeave 响应分区离开事件：Showing → Idle
//
// 只清除 shown 标志，不取消仍在播放的动画时间线；在动画结束前
// 到来的下一次 Trigger 仍会照常开启新周期（旧周期被防御性终结）。
func (m *TitleCardManager) OnLeave() {
	if m.shown {
		log.Printf("[TitleCardManager] Zone left, card re-armed")
	}
	m.shown = false
}

// Reset 强制清除 shown 标志
//
// 用于外围上下文失效（例如返回出发点）时重置状态；与 OnLeave
// 一样不触碰进行中的周期。
func (m *TitleCardManager) Reset() {
	m.shown = false
	log.Printf("[TitleCardManager] State reset")
}

// Teardown 终结进行中的周期（进程退出前调用）
func (m *TitleCardManager) Teardown() {
	if m.cycle != nil {
		m.finishCycle()
	}
	m.shown = false
}

// Draw 绘制当前标题卡（Idle 时无操作）
func (m *TitleCardManager) Draw(screen *ebiten.Image, fontSource *text.GoTextFaceSource) {
	if m.cycle == nil {
		return
	}
	m.cycle.overlay.Draw(screen, fontSource)
}

// finishCycle 停用容器并把实例归还对象池
func (m *TitleCardManager) finishCycle() {
	m.cycle.overlay.Deactivate()
	m.pool.Release(m.cycle.overlay)
	m.cycle = nil
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
