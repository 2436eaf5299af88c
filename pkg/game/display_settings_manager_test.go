package game

import (
	"testing"

	"github.com/unluckyjori/interior-title-cards/pkg/config"
	"github.com/unluckyjori/interior-title-cards/pkg/types"
)

// TestDisplaySettings_FirstRunSeedsFromConfig 首次运行（无已保存
// 设置）时 ApplyTo 以配置文件的值为准
func TestDisplaySettings_FirstRunSeedsFromConfig(t *testing.T) {
	sm, err := NewDisplaySettingsManager(nil)
	if err != nil {
		t.Fatalf("NewDisplaySettingsManager failed: %v", err)
	}

	cfg := config.DefaultDisplayConfig()
	cfg.CustomImagesEnabled = false
	cfg.DisplayType = types.DisplayCombined.ConfigString()

	sm.ApplyTo(cfg)

	if cfg.CustomImagesEnabled {
		t.Error("first-run ApplyTo must not override the config file value")
	}
	if sm.GetSettings().CustomImagesEnabled {
		t.Error("first-run ApplyTo should seed the settings from the config")
	}
	if sm.GetSettings().DisplayType != types.DisplayCombined.ConfigString() {
		t.Errorf("seeded DisplayType = %q, want combined", sm.GetSettings().DisplayType)
	}
}

// TestDisplaySettings_SetterOverridesConfig Set* 之后设置成为
// 权威来源，ApplyTo 覆盖配置文件的同名字段
func TestDisplaySettings_SetterOverridesConfig(t *testing.T) {
	sm, err := NewDisplaySettingsManager(nil)
	if err != nil {
		t.Fatalf("NewDisplaySettingsManager failed: %v", err)
	}

	sm.SetCustomImagesEnabled(false)
	sm.SetSourceMode(types.SourceUserOnly)

	cfg := config.DefaultDisplayConfig()
	sm.ApplyTo(cfg)

	if cfg.CustomImagesEnabled {
		t.Error("ApplyTo after a setter must override the config value")
	}
	if cfg.ParsedSourceMode() != types.SourceUserOnly {
		t.Errorf("SourceMode = %q, want user-only", cfg.SourceMode)
	}
}

// TestDisplaySettings_PersistsThroughGdata 设置经 gdata 持久化，
// 新的管理器实例能读回并覆盖配置
func TestDisplaySettings_PersistsThroughGdata(t *testing.T) {
	manager := createTestGdataManager(t, "display_settings")

	sm, err := NewDisplaySettingsManager(manager)
	if err != nil {
		t.Fatalf("NewDisplaySettingsManager failed: %v", err)
	}
	sm.SetCustomImagesEnabled(false)
	sm.SetDisplayType(types.DisplayTopOnly)
	if err := sm.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := NewDisplaySettingsManager(manager)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	cfg := config.DefaultDisplayConfig()
	reloaded.ApplyTo(cfg)

	if cfg.CustomImagesEnabled {
		t.Error("persisted CustomImagesEnabled=false should survive reload")
	}
	if cfg.ParsedDisplayType() != types.DisplayTopOnly {
		t.Errorf("DisplayType = %q, want top-only", cfg.DisplayType)
	}
}

// TestDisplaySettings_DegradedModeSaveIsNoOp 降级模式下 Save
// 不报错
func TestDisplaySettings_DegradedModeSaveIsNoOp(t *testing.T) {
	sm, err := NewDisplaySettingsManager(nil)
	if err != nil {
		t.Fatalf("NewDisplaySettingsManager failed: %v", err)
	}
	sm.SetCustomImagesEnabled(false)
	if err := sm.Save(); err != nil {
		t.Errorf("degraded-mode Save returned %v, want nil", err)
	}
}
