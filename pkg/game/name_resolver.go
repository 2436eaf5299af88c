package game

import (
	"log"
	"strings"

	"github.com/quasilyte/gdata/v2"
)

// UnknownZoneName 空分区名的固定回退显示名
const UnknownZoneName = "Unknown"

// 覆盖表在 gdata 中的存储约定：
// 对象 "overrides" 下，每个规范分区名一个属性，
// 属性名 = 清洗后的规范名 + 固定后缀
const (
	overridesObject = "overrides"
	overrideSuffix  = "_Override"
)

// zoneVariantToCanonical 已知显示变体 → 规范分区名的静态映射
//
// 同一个物理分区在外部环境里可能以多种措辞出现（带生成器
// 标注、带编号等）。此表在覆盖查询之前把它们收敛为同一个键。
// 不变式：多对一、运行期不可变。
var zoneVariantToCanonical = map[string]string{
	"Facility (Level1Flow)":           "Facility",
	"Facility (Level1FlowExtended)":   "Facility",
	"Facility (Level1Flow3Exits)":     "Facility",
	"Haunted Mansion (Level2Flow)":    "Haunted Mansion",
	"Mineshaft (Level3Flow)":          "Mineshaft",
	"Mineshaft (Level3FlowDark)":      "Mineshaft",
	"Laboratory (LabFlow)":            "Laboratory",
	"Laboratory (LabFlowHazard)":      "Laboratory",
	"Storage Depot (WarehouseFlow)":   "Storage Depot",
	"Storage Depot (WarehouseFlowV2)": "Storage Depot",
}

// CanonicalZoneName 把原始分区名收敛为规范名
// 不在变体表中的名字本身就是规范名
func CanonicalZoneName(rawName string) string {
	if canonical, ok := zoneVariantToCanonical[rawName]; ok {
		return canonical
	}
	return rawName
}

// OverrideStore 用户覆盖表
//
// 规范分区名 → 可选的用户覆盖显示名；空串表示"无覆盖"。
// 条目按需惰性创建，每个规范名至多创建一次。
//
// 持久化走 gdata（与设置存储同一套机制）；manager 为 nil 时
// 进入降级模式，仅保留内存视图，不报错。
type OverrideStore struct {
	gdataManager *gdata.Manager
	entries      map[string]string // 内存视图：规范名 → 覆盖值
}

// NewOverrideStore 创建覆盖表
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
func NewOverrideStore(gdataManager *gdata.Manager) *OverrideStore {
	return &OverrideStore{
		gdataManager: gdataManager,
		entries:      make(map[string]string),
	}
}

// propName 返回规范名对应的 gdata 属性名
func (s *OverrideStore) propName(canonical string) string {
	return SanitizeZoneName(canonical) + overrideSuffix
}

// Lookup 查询规范名的覆盖条目
//
// 返回：
//   - string: 覆盖值（空串 = 条目存在但未设置覆盖）
//   - bool: 条目是否存在
func (s *OverrideStore) Lookup(canonical string) (string, bool) {
	if value, ok := s.entries[canonical]; ok {
		return value, true
	}

	if s.gdataManager != nil && s.gdataManager.ObjectPropExists(overridesObject, s.propName(canonical)) {
		data, err := s.gdataManager.LoadObjectProp(overridesObject, s.propName(canonical))
		if err != nil {
			log.Printf("[OverrideStore] Warning: failed to load override for %q: %v", canonical, err)
			return "", false
		}
		value := strings.TrimSpace(string(data))
		s.entries[canonical] = value
		return value, true
	}

	return "", false
}

// EnsureEntry 惰性创建规范名的覆盖条目（值为空串）
// 条目已存在时什么都不做
func (s *OverrideStore) EnsureEntry(canonical string) {
	if canonical == "" {
		return
	}
	if _, exists := s.Lookup(canonical); exists {
		return
	}

	s.entries[canonical] = ""
	if s.gdataManager != nil {
		if err := s.gdataManager.SaveObjectProp(overridesObject, s.propName(canonical), []byte("")); err != nil {
			log.Printf("[OverrideStore] Warning: failed to persist override entry for %q: %v", canonical, err)
		}
	}
	log.Printf("[OverrideStore] Created override entry for %q", canonical)
}

// SetOverride 设置规范名的覆盖显示名并持久化
// 传入空串等价于"清除覆盖但保留条目"
func (s *OverrideStore) SetOverride(canonical, value string) {
	if canonical == "" {
		return
	}
	s.entries[canonical] = strings.TrimSpace(value)
	if s.gdataManager != nil {
		if err := s.gdataManager.SaveObjectProp(overridesObject, s.propName(canonical), []byte(s.entries[canonical])); err != nil {
			log.Printf("[OverrideStore] Warning: failed to persist override for %q: %v", canonical, err)
		}
	}
}

// KnownCanonicalNames 返回内存视图中已有条目的规范名列表（测试辅助）
func (s *OverrideStore) KnownCanonicalNames() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

// NameOverrideResolver 分区显示名解析器
//
// 把一个原始分区名（可能是规范名的某个显示变体）解析为最终
// 显示名：优先用户覆盖，其次规范名或原始名本身。
//
// 解析结果按原始名缓存，进程内不失效：同一个原始名的二次
// 解析是 O(1) 的，不会重复走变体表和覆盖表。
//
// 行为刻意保留的不对称（改动会改变既有配置下的可见文字）：
//   - 覆盖条目存在且非空 → 返回覆盖值
//   - 覆盖条目存在但为空 → 返回规范名
//   - 覆盖条目完全不存在 → 返回原始名本身（而不是规范名，
//     即使变体表发生过收敛）
type NameOverrideResolver struct {
	store *OverrideStore
	cache map[string]string // 原始名 → 最终显示名
}

// NewNameOverrideResolver 创建显示名解析器
func NewNameOverrideResolver(store *OverrideStore) *NameOverrideResolver {
	return &NameOverrideResolver{
		store: store,
		cache: make(map[string]string),
	}
}

// Resolve 解析原始分区名为最终显示名，永不失败
//
// 空名返回固定回退 UnknownZoneName。
func (r *NameOverrideResolver) Resolve(rawName string) string {
	if rawName == "" {
		return UnknownZoneName
	}

	if display, ok := r.cache[rawName]; ok {
		return display
	}

	canonical := CanonicalZoneName(rawName)

	var display string
	if override, exists := r.store.Lookup(canonical); exists {
		if override != "" {
			display = override
		} else {
			display = canonical
		}
	} else {
		// 无条目时缓存并返回原始名本身（见类型注释）
		display = rawName
	}

	r.cache[rawName] = display
	return display
}
