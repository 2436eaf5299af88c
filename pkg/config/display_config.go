package config

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/unluckyjori/interior-title-cards/pkg/types"
)

// TextElementConfig 单个文字元素（顶部或主体）的样式与时间参数
//
// 所有时长单位为秒。加载后会经过 Normalize() 夹取，负值一律归零。
type TextElementConfig struct {
	Label           string  `yaml:"label"`           // 固定文案；为空时显示动态内容（主体元素始终为动态内容）
	FontSize        float64 `yaml:"fontSize"`        // 字号（像素）
	Bold            bool    `yaml:"bold"`            // 是否加粗
	Color           string  `yaml:"color"`           // 颜色，"#RRGGBB" 或 "#RRGGBBAA"
	X               float64 `yaml:"x"`               // 屏幕 X 坐标
	Y               float64 `yaml:"y"`               // 屏幕 Y 坐标
	DisplayDuration float64 `yaml:"displayDuration"` // 保持显示时长（从触发时刻起算）
	FadeInDuration  float64 `yaml:"fadeInDuration"`  // 淡入时长
	FadeOutDuration float64 `yaml:"fadeOutDuration"` // 淡出时长
	StartDelay      float64 `yaml:"startDelay"`      // 开始延迟
	FadeEnabled     bool    `yaml:"fadeEnabled"`     // 是否启用淡入淡出
}

// ImageBoxConfig 单个图片槽位的位置与目标尺寸
//
// MaxWidth / MaxHeight 为 0 表示该轴使用图片原始尺寸。
type ImageBoxConfig struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	MaxWidth  int     `yaml:"maxWidth"`
	MaxHeight int     `yaml:"maxHeight"`
}

// DisplayConfig 标题卡显示配置
//
// 由外部提供、核心只读。对应原配置面板里的全部条目：
// 两个文字元素的样式与时间线、三个图片槽位、全局图片开关、
// 来源优先级、显示模式与黑名单。
type DisplayConfig struct {
	TopText      TextElementConfig `yaml:"topText"`
	InteriorText TextElementConfig `yaml:"interiorText"`

	TopImage      ImageBoxConfig `yaml:"topImage"`
	InteriorImage ImageBoxConfig `yaml:"interiorImage"`
	CombinedImage ImageBoxConfig `yaml:"combinedImage"`

	// CustomImagesEnabled 全局图片开关；关闭时完全跳过图片解析
	CustomImagesEnabled bool `yaml:"customImagesEnabled"`
	// SourceMode 图片来源优先级，见 types.ParseSourceMode
	SourceMode string `yaml:"sourceMode"`
	// DisplayType 图片替换模式，见 types.ParseDisplayType
	DisplayType string `yaml:"displayType"`
	// Blacklist 逗号分隔的路径片段黑名单（命中即拒绝该图片）
	Blacklist string `yaml:"blacklist"`

	// ImagesRoot 图片资源根目录
	ImagesRoot string `yaml:"imagesRoot"`
	// FontPath 渲染文字所用的 TTF/OTF 字体路径
	FontPath string `yaml:"fontPath"`
	// MetadataPath 可选的分区元数据伴随文件（用于发现已知分区）
	MetadataPath string `yaml:"metadataPath"`
}

// DefaultDisplayConfig 返回默认配置
//
// 默认值对齐原版行为：顶部小字 3 秒、主体大字 5 秒，
// 均启用 0.5 秒淡入淡出，无开始延迟，图片功能开启，开发者目录优先。
func DefaultDisplayConfig() *DisplayConfig {
	return &DisplayConfig{
		TopText: TextElementConfig{
			Label:           "Now entering",
			FontSize:        24,
			Color:           "#FFFFFF",
			X:               400,
			Y:               140,
			DisplayDuration: 3.0,
			FadeInDuration:  0.5,
			FadeOutDuration: 0.5,
			StartDelay:      0,
			FadeEnabled:     true,
		},
		InteriorText: TextElementConfig{
			FontSize:        48,
			Bold:            true,
			Color:           "#FFFFFF",
			X:               400,
			Y:               180,
			DisplayDuration: 5.0,
			FadeInDuration:  0.5,
			FadeOutDuration: 0.5,
			StartDelay:      0.25,
			FadeEnabled:     true,
		},
		TopImage:      ImageBoxConfig{X: 400, Y: 140, MaxWidth: 300, MaxHeight: 60},
		InteriorImage: ImageBoxConfig{X: 400, Y: 180, MaxWidth: 500, MaxHeight: 160},
		CombinedImage: ImageBoxConfig{X: 400, Y: 150, MaxWidth: 500, MaxHeight: 220},

		CustomImagesEnabled: true,
		SourceMode:          types.SourceDevPriority.ConfigString(),
		DisplayType:         types.DisplayBothSeparate.ConfigString(),
		Blacklist:           "",

		ImagesRoot:   "assets/InteriorTitleCardsImages",
		FontPath:     "assets/fonts/titlecard.ttf",
		MetadataPath: "",
	}
}

// LoadDisplayConfig 从 YAML 文件加载显示配置
//
// 文件不存在或解析失败时返回错误，调用方通常回退到 DefaultDisplayConfig()。
// 加载成功后自动执行 Normalize()。
func LoadDisplayConfig(path string) (*DisplayConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read display config %s: %w", path, err)
	}

	cfg := DefaultDisplayConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse display config %s: %w", path, err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Save 将配置写回 YAML 文件
func (c *DisplayConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal display config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write display config %s: %w", path, err)
	}
	return nil
}

// Normalize 夹取非法值，保证不变式：所有时长 >= 0，目标尺寸 >= 0
func (c *DisplayConfig) Normalize() {
	normalizeElement(&c.TopText)
	normalizeElement(&c.InteriorText)
	normalizeBox(&c.TopImage)
	normalizeBox(&c.InteriorImage)
	normalizeBox(&c.CombinedImage)
}

func normalizeElement(e *TextElementConfig) {
	if e.DisplayDuration < 0 {
		e.DisplayDuration = 0
	}
	if e.FadeInDuration < 0 {
		e.FadeInDuration = 0
	}
	if e.FadeOutDuration < 0 {
		e.FadeOutDuration = 0
	}
	if e.StartDelay < 0 {
		e.StartDelay = 0
	}
	if e.FontSize <= 0 {
		e.FontSize = 24
	}
}

func normalizeBox(b *ImageBoxConfig) {
	if b.MaxWidth < 0 {
		b.MaxWidth = 0
	}
	if b.MaxHeight < 0 {
		b.MaxHeight = 0
	}
}

// ParsedSourceMode 返回解析后的来源优先级枚举
func (c *DisplayConfig) ParsedSourceMode() types.SourceMode {
	return types.ParseSourceMode(c.SourceMode)
}

// ParsedDisplayType 返回解析后的显示模式枚举
func (c *DisplayConfig) ParsedDisplayType() types.DisplayType {
	return types.ParseDisplayType(c.DisplayType)
}

// ImageBoxForRole 返回指定角色的图片槽位配置
func (c *DisplayConfig) ImageBoxForRole(role types.ImageRole) ImageBoxConfig {
	switch role {
	case types.RoleTop:
		return c.TopImage
	case types.RoleCombined:
		return c.CombinedImage
	default:
		return c.InteriorImage
	}
}

// ParseColor 将 "#RRGGBB" / "#RRGGBBAA" 形式的颜色串解析为 color.RGBA
// 解析失败返回不透明白色
func ParseColor(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}

	var r, g, b, a uint8 = 0, 0, 0, 255
	var err error
	if len(s) == 8 {
		_, err = fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &b, &a)
	} else {
		_, err = fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b)
	}
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: a}
}
