package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/unluckyjori/interior-title-cards/pkg/config"
	"github.com/unluckyjori/interior-title-cards/pkg/types"
)

// DisplaySettings 运行期可切换的显示设置
// 这些值覆盖显示配置文件里的同名字段，跨会话持久化
type DisplaySettings struct {
	CustomImagesEnabled bool   `yaml:"customImagesEnabled"` // 全局图片开关
	DisplayType         string `yaml:"displayType"`         // 图片替换模式
	SourceMode          string `yaml:"sourceMode"`          // 图片来源优先级
}

// DefaultDisplaySettings 返回默认显示设置（与默认配置一致）
func DefaultDisplaySettings() *DisplaySettings {
	return &DisplaySettings{
		CustomImagesEnabled: true,
		DisplayType:         types.DisplayBothSeparate.ConfigString(),
		SourceMode:          types.SourceDevPriority.ConfigString(),
	}
}

// DisplaySettingsManager 显示设置管理器
// 负责运行期显示设置的加载、保存和内存管理
type DisplaySettingsManager struct {
	gdataManager *gdata.Manager   // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *DisplaySettings // 当前设置
	// authoritative 为 true 时设置覆盖配置文件的同名字段；
	// 从存储读到已保存的设置或任一 Set* 被调用后置位
	authoritative bool
}

// 存储路径常量
const (
	displaySettingsObject   = "settings"
	displaySettingsProperty = "display"
)

// NewDisplaySettingsManager 创建新的显示设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *DisplaySettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewDisplaySettingsManager(gdataManager *gdata.Manager) (*DisplaySettingsManager, error) {
	sm := &DisplaySettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultDisplaySettings(),
	}

	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[DisplaySettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *DisplaySettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultDisplaySettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(displaySettingsObject, displaySettingsProperty) {
		sm.settings = DefaultDisplaySettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(displaySettingsObject, displaySettingsProperty)
	if err != nil {
		sm.settings = DefaultDisplaySettings()
		return fmt.Errorf("failed to load display settings: %w", err)
	}

	var loaded DisplaySettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = DefaultDisplaySettings()
		return fmt.Errorf("failed to unmarshal display settings: %w", err)
	}

	// 夹取非法枚举串（回退默认值，与配置解析同一套规则）
	loaded.DisplayType = types.ParseDisplayType(loaded.DisplayType).ConfigString()
	loaded.SourceMode = types.ParseSourceMode(loaded.SourceMode).ConfigString()

	sm.settings = &loaded
	sm.authoritative = true
	log.Printf("[DisplaySettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *DisplaySettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal display settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(displaySettingsObject, displaySettingsProperty, data); err != nil {
		return fmt.Errorf("failed to save display settings: %w", err)
	}

	log.Printf("[DisplaySettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *DisplaySettingsManager) GetSettings() *DisplaySettings {
	return sm.settings
}

// SetCustomImagesEnabled 设置全局图片开关
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *DisplaySettingsManager) SetCustomImagesEnabled(enabled bool) {
	sm.settings.CustomImagesEnabled = enabled
	sm.authoritative = true
}

// SetDisplayType 设置图片替换模式
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *DisplaySettingsManager) SetDisplayType(d types.DisplayType) {
	sm.settings.DisplayType = d.ConfigString()
	sm.authoritative = true
}

// SetSourceMode 设置图片来源优先级
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *DisplaySettingsManager) SetSourceMode(m types.SourceMode) {
	sm.settings.SourceMode = m.ConfigString()
	sm.authoritative = true
}

// ApplyTo 同步设置与显示配置
//
// 首次运行（存储里没有已保存的设置）时以配置文件的值为准，
// 设置从配置播种；此后已保存的设置覆盖配置文件的同名字段。
// 在配置文件加载之后、组件组装之前调用一次；之后每次 Set* 并
// Save 后再调用即可让改动立即生效（管理器每次触发都重新读配置）。
func (sm *DisplaySettingsManager) ApplyTo(cfg *config.DisplayConfig) {
	if !sm.authoritative {
		sm.settings.CustomImagesEnabled = cfg.CustomImagesEnabled
		sm.settings.DisplayType = cfg.DisplayType
		sm.settings.SourceMode = cfg.SourceMode
		return
	}
	cfg.CustomImagesEnabled = sm.settings.CustomImagesEnabled
	cfg.DisplayType = sm.settings.DisplayType
	cfg.SourceMode = sm.settings.SourceMode
}
