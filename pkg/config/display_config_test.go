package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/unluckyjori/interior-title-cards/pkg/types"
)

// TestDefaultDisplayConfig 默认值对齐原版行为
func TestDefaultDisplayConfig(t *testing.T) {
	cfg := DefaultDisplayConfig()

	if cfg.TopText.DisplayDuration != 3.0 {
		t.Errorf("TopText.DisplayDuration = %v, want 3.0", cfg.TopText.DisplayDuration)
	}
	if cfg.InteriorText.DisplayDuration != 5.0 {
		t.Errorf("InteriorText.DisplayDuration = %v, want 5.0", cfg.InteriorText.DisplayDuration)
	}
	if !cfg.TopText.FadeEnabled || !cfg.InteriorText.FadeEnabled {
		t.Error("fades should be enabled by default")
	}
	if !cfg.CustomImagesEnabled {
		t.Error("custom images should be enabled by default")
	}
	if cfg.ParsedSourceMode() != types.SourceDevPriority {
		t.Errorf("default source mode = %v, want dev-priority", cfg.ParsedSourceMode())
	}
	if cfg.ParsedDisplayType() != types.DisplayBothSeparate {
		t.Errorf("default display type = %v, want both-separate", cfg.ParsedDisplayType())
	}
}

// TestLoadDisplayConfig YAML 加载：显式字段覆盖默认值，
// 未出现的字段保留默认值
func TestLoadDisplayConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "display.yaml")
	content := `topText:
  label: "Entering zone"
  displayDuration: 2.5
  fadeEnabled: false
displayType: "combined"
blacklist: "dev/Facility,user/Mineshaft"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadDisplayConfig(path)
	if err != nil {
		t.Fatalf("LoadDisplayConfig failed: %v", err)
	}

	if cfg.TopText.Label != "Entering zone" {
		t.Errorf("TopText.Label = %q, want %q", cfg.TopText.Label, "Entering zone")
	}
	if cfg.TopText.DisplayDuration != 2.5 {
		t.Errorf("TopText.DisplayDuration = %v, want 2.5", cfg.TopText.DisplayDuration)
	}
	if cfg.TopText.FadeEnabled {
		t.Error("TopText.FadeEnabled should be overridden to false")
	}
	if cfg.ParsedDisplayType() != types.DisplayCombined {
		t.Errorf("display type = %v, want combined", cfg.ParsedDisplayType())
	}
	if cfg.Blacklist != "dev/Facility,user/Mineshaft" {
		t.Errorf("Blacklist = %q, unexpected", cfg.Blacklist)
	}
	// 文件里未出现的部分保留默认值
	if cfg.InteriorText.DisplayDuration != 5.0 {
		t.Errorf("InteriorText.DisplayDuration = %v, want default 5.0", cfg.InteriorText.DisplayDuration)
	}
}

// TestLoadDisplayConfig_MissingFile 文件缺失返回错误（调用方回退默认）
func TestLoadDisplayConfig_MissingFile(t *testing.T) {
	if _, err := LoadDisplayConfig("/does/not/exist.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

// TestLoadDisplayConfig_InvalidYAML 解析失败返回错误
func TestLoadDisplayConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("topText: [not a mapping"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDisplayConfig(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

// TestSaveAndReload 保存后重新加载得到等价配置
func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "display.yaml")

	cfg := DefaultDisplayConfig()
	cfg.TopText.Label = "Custom label"
	cfg.SourceMode = types.SourceUserOnly.ConfigString()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadDisplayConfig(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.TopText.Label != "Custom label" {
		t.Errorf("reloaded label = %q, want %q", loaded.TopText.Label, "Custom label")
	}
	if loaded.ParsedSourceMode() != types.SourceUserOnly {
		t.Errorf("reloaded source mode = %v, want user-only", loaded.ParsedSourceMode())
	}
}

// TestNormalize_ClampsNegativeValues 负时长与负尺寸归零，
// 非法字号回落默认
func TestNormalize_ClampsNegativeValues(t *testing.T) {
	cfg := DefaultDisplayConfig()
	cfg.TopText.DisplayDuration = -1
	cfg.TopText.FadeInDuration = -0.5
	cfg.TopText.StartDelay = -2
	cfg.TopText.FontSize = 0
	cfg.InteriorImage.MaxWidth = -100

	cfg.Normalize()

	if cfg.TopText.DisplayDuration != 0 {
		t.Errorf("DisplayDuration = %v, want clamped 0", cfg.TopText.DisplayDuration)
	}
	if cfg.TopText.FadeInDuration != 0 {
		t.Errorf("FadeInDuration = %v, want clamped 0", cfg.TopText.FadeInDuration)
	}
	if cfg.TopText.StartDelay != 0 {
		t.Errorf("StartDelay = %v, want clamped 0", cfg.TopText.StartDelay)
	}
	if cfg.TopText.FontSize != 24 {
		t.Errorf("FontSize = %v, want fallback 24", cfg.TopText.FontSize)
	}
	if cfg.InteriorImage.MaxWidth != 0 {
		t.Errorf("InteriorImage.MaxWidth = %v, want clamped 0", cfg.InteriorImage.MaxWidth)
	}
}

// TestImageBoxForRole 三个角色映射到各自的槽位配置
func TestImageBoxForRole(t *testing.T) {
	cfg := DefaultDisplayConfig()
	cfg.TopImage.MaxWidth = 111
	cfg.InteriorImage.MaxWidth = 222
	cfg.CombinedImage.MaxWidth = 333

	if got := cfg.ImageBoxForRole(types.RoleTop).MaxWidth; got != 111 {
		t.Errorf("RoleTop box MaxWidth = %d, want 111", got)
	}
	if got := cfg.ImageBoxForRole(types.RoleInterior).MaxWidth; got != 222 {
		t.Errorf("RoleInterior box MaxWidth = %d, want 222", got)
	}
	if got := cfg.ImageBoxForRole(types.RoleCombined).MaxWidth; got != 333 {
		t.Errorf("RoleCombined box MaxWidth = %d, want 333", got)
	}
}

// TestParseColor 颜色串解析与回退
func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  color.RGBA
	}{
		{"#FFFFFF", color.RGBA{255, 255, 255, 255}},
		{"#FF8000", color.RGBA{255, 128, 0, 255}},
		{"#FF800080", color.RGBA{255, 128, 0, 128}},
		{"  #00ff00  ", color.RGBA{0, 255, 0, 255}},
		{"", color.RGBA{255, 255, 255, 255}},         // 空串回退白色
		{"#FFF", color.RGBA{255, 255, 255, 255}},     // 短格式不支持
		{"#GGHHII", color.RGBA{255, 255, 255, 255}},  // 非法十六进制
		{"not-a-color", color.RGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		if got := ParseColor(tt.input); got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
