package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/unluckyjori/interior-title-cards/pkg/config"
)

// OverlayTextElement 标题卡上的单个文字元素（顶部小字或主体大字）
type OverlayTextElement struct {
	Content  string
	Color    color.RGBA
	FontSize float64
	Bold     bool
	X        float64
	Y        float64
	Alpha    float64
}

// OverlayImageSlot 标题卡上的单个图片槽位
// Asset 由 AssetCache 独占持有，槽位只是借用，回收时不释放
type OverlayImageSlot struct {
	Asset  *ImageAsset
	Active bool
	Alpha  float64
	X      float64
	Y      float64
}

// TitleCardOverlay 标题卡可视对象
//
// 两个文字元素 + 三个图片槽位。构造后默认隐藏；一个显示周期
// 结束后停用并归还 OverlayPool，下次触发时复用而非重建。
//
// 池只保证对象身份，内容复位完全由调用方（管理器）通过
// ResetVisuals 负责。
type TitleCardOverlay struct {
	Active bool

	TopText      OverlayTextElement
	InteriorText OverlayTextElement

	TopImage      OverlayImageSlot
	InteriorImage OverlayImageSlot
	CombinedImage OverlayImageSlot
}

// NewTitleCardOverlay 创建一个隐藏状态的标题卡对象
func NewTitleCardOverlay() *TitleCardOverlay {
	return &TitleCardOverlay{}
}

// ResetVisuals 从配置完全复位所有可变视觉属性
//
// 文字内容、颜色、位置取自配置；每个元素的初始透明度按规则：
// 启用淡入淡出或有开始延迟 → 0，否则 → 1。三个图片槽位一律
// 停用并清除资源引用。
func (o *TitleCardOverlay) ResetVisuals(cfg *config.DisplayConfig) {
	resetTextElement(&o.TopText, &cfg.TopText)
	resetTextElement(&o.InteriorText, &cfg.InteriorText)

	resetImageSlot(&o.TopImage, cfg.TopImage)
	resetImageSlot(&o.InteriorImage, cfg.InteriorImage)
	resetImageSlot(&o.CombinedImage, cfg.CombinedImage)
}

func resetTextElement(e *OverlayTextElement, c *config.TextElementConfig) {
	e.Content = c.Label
	e.Color = config.ParseColor(c.Color)
	e.FontSize = c.FontSize
	e.Bold = c.Bold
	e.X = c.X
	e.Y = c.Y
	if c.FadeEnabled || c.StartDelay > 0 {
		e.Alpha = 0
	} else {
		e.Alpha = 1
	}
}

func resetImageSlot(s *OverlayImageSlot, c config.ImageBoxConfig) {
	s.Asset = nil
	s.Active = false
	s.Alpha = 0
	s.X = c.X
	s.Y = c.Y
}

// Deactivate 停用整张标题卡（不触碰图片资源的所有权）
func (o *TitleCardOverlay) Deactivate() {
	o.Active = false
	o.TopImage.Active = false
	o.TopImage.Asset = nil
	o.InteriorImage.Active = false
	o.InteriorImage.Asset = nil
	o.CombinedImage.Active = false
	o.CombinedImage.Asset = nil
}

// Draw 绘制标题卡
//
// 参数：
//   - screen: 目标画面
//   - fontSource: 文字字体源，为 nil 时跳过文字绘制
//
// 文字以 (X, Y) 为水平中心点绘制，与原版卡片布局一致。
func (o *TitleCardOverlay) Draw(screen *ebiten.Image, fontSource *text.GoTextFaceSource) {
	if !o.Active {
		return
	}

	drawImageSlot(screen, &o.TopImage)
	drawImageSlot(screen, &o.InteriorImage)
	drawImageSlot(screen, &o.CombinedImage)

	if fontSource == nil {
		return
	}
	drawTextElement(screen, &o.TopText, fontSource)
	drawTextElement(screen, &o.InteriorText, fontSource)
}

func drawImageSlot(screen *ebiten.Image, s *OverlayImageSlot) {
	if !s.Active || s.Asset == nil || s.Asset.Image == nil || s.Alpha <= 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	// 槽位坐标是中心点，图片居中摆放
	op.GeoM.Translate(s.X-float64(s.Asset.Width)/2, s.Y-float64(s.Asset.Height)/2)
	op.ColorScale.ScaleAlpha(float32(s.Alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(s.Asset.Image, op)
}

func drawTextElement(screen *ebiten.Image, e *OverlayTextElement, fontSource *text.GoTextFaceSource) {
	if e.Alpha <= 0 || e.Content == "" {
		return
	}

	face := &text.GoTextFace{
		Source: fontSource,
		Size:   e.FontSize,
	}
	if e.Bold {
		face.SetVariation(text.MustParseTag("wght"), 700)
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(e.X, e.Y)
	op.ColorScale.ScaleWithColor(e.Color)
	op.ColorScale.ScaleAlpha(float32(e.Alpha))
	op.PrimaryAlign = text.AlignCenter
	text.Draw(screen, e.Content, face, op)
}
