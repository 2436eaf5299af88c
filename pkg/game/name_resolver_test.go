package game

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
)

// createTestGdataManager 创建指向临时目录的 gdata 管理器
func createTestGdataManager(t *testing.T, testName string) *gdata.Manager {
	t.Helper()

	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	manager, err := gdata.Open(gdata.Config{
		AppName: fmt.Sprintf("titlecard_test_%s_%d", testName, time.Now().UnixNano()),
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return manager
}

// TestResolve_EmptyNameFallsBack 空分区名返回固定回退名
func TestResolve_EmptyNameFallsBack(t *testing.T) {
	resolver := NewNameOverrideResolver(NewOverrideStore(nil))

	if got := resolver.Resolve(""); got != UnknownZoneName {
		t.Errorf("Resolve(\"\") = %q, want %q", got, UnknownZoneName)
	}
}

// TestResolve_OverridePrecedence 非空覆盖值优先于一切
func TestResolve_OverridePrecedence(t *testing.T) {
	store := NewOverrideStore(nil)
	store.SetOverride("Facility", "The Old Plant")
	resolver := NewNameOverrideResolver(store)

	if got := resolver.Resolve("Facility (Level1Flow)"); got != "The Old Plant" {
		t.Errorf("Resolve() = %q, want override %q", got, "The Old Plant")
	}
	if got := resolver.Resolve("Facility"); got != "The Old Plant" {
		t.Errorf("Resolve() = %q, want override %q", got, "The Old Plant")
	}
}

// TestResolve_EmptyEntryReturnsCanonical 条目存在但为空 → 返回规范名
func TestResolve_EmptyEntryReturnsCanonical(t *testing.T) {
	store := NewOverrideStore(nil)
	store.EnsureEntry("Facility")
	resolver := NewNameOverrideResolver(store)

	if got := resolver.Resolve("Facility (Level1Flow)"); got != "Facility" {
		t.Errorf("Resolve() = %q, want canonical %q", got, "Facility")
	}
}

// TestResolve_VariantWithoutEntryReturnsRawName 刻意保留的行为：
// 变体表发生过收敛、但覆盖表完全没有条目时，返回原始名本身
// 而不是规范名（改动会改变既有配置下的可见文字）
func TestResolve_VariantWithoutEntryReturnsRawName(t *testing.T) {
	resolver := NewNameOverrideResolver(NewOverrideStore(nil))

	raw := "Facility (Level1Flow)"
	got := resolver.Resolve(raw)
	if got != raw {
		t.Errorf("Resolve(%q) = %q, want the raw name back (not %q)", raw, got, "Facility")
	}
}

// TestResolve_UnknownNamePassesThrough 不在变体表里的名字原样返回
func TestResolve_UnknownNamePassesThrough(t *testing.T) {
	resolver := NewNameOverrideResolver(NewOverrideStore(nil))

	if got := resolver.Resolve("Abandoned Outpost"); got != "Abandoned Outpost" {
		t.Errorf("Resolve() = %q, want %q", got, "Abandoned Outpost")
	}
}

// TestResolve_ResultIsCachedPerRawName 解析结果按原始名缓存，
// 进程内不失效：缓存命中后即使覆盖表变化也不重算
func TestResolve_ResultIsCachedPerRawName(t *testing.T) {
	store := NewOverrideStore(nil)
	resolver := NewNameOverrideResolver(store)

	raw := "Mineshaft (Level3Flow)"
	first := resolver.Resolve(raw)

	// 缓存已填充；此后创建条目不影响同一原始名的解析结果
	store.SetOverride("Mineshaft", "The Pit")
	second := resolver.Resolve(raw)

	if first != second {
		t.Errorf("cached result changed: first %q, second %q", first, second)
	}

	// 新的原始名（规范名本身）看到新覆盖
	if got := resolver.Resolve("Mineshaft"); got != "The Pit" {
		t.Errorf("Resolve(%q) = %q, want %q", "Mineshaft", got, "The Pit")
	}
}

// TestCanonicalZoneName 变体表是多对一映射
func TestCanonicalZoneName(t *testing.T) {
	if got := CanonicalZoneName("Facility (Level1Flow)"); got != "Facility" {
		t.Errorf("CanonicalZoneName = %q, want Facility", got)
	}
	if got := CanonicalZoneName("Facility (Level1FlowExtended)"); got != "Facility" {
		t.Errorf("CanonicalZoneName = %q, want Facility", got)
	}
	if got := CanonicalZoneName("Not In Table"); got != "Not In Table" {
		t.Errorf("CanonicalZoneName = %q, want pass-through", got)
	}
}

// TestOverrideStore_EnsureEntryIdempotent 条目至多创建一次，
// 已设置的覆盖值不会被 EnsureEntry 清掉
func TestOverrideStore_EnsureEntryIdempotent(t *testing.T) {
	store := NewOverrideStore(nil)

	store.EnsureEntry("Facility")
	store.SetOverride("Facility", "The Old Plant")
	store.EnsureEntry("Facility")

	value, exists := store.Lookup("Facility")
	if !exists {
		t.Fatal("entry should exist")
	}
	if value != "The Old Plant" {
		t.Errorf("Lookup() = %q, want %q", value, "The Old Plant")
	}
}

// TestOverrideStore_KnownCanonicalNames 已建条目的规范名可枚举
func TestOverrideStore_KnownCanonicalNames(t *testing.T) {
	store := NewOverrideStore(nil)

	store.EnsureEntry("Facility")
	store.SetOverride("Mineshaft", "The Pit")

	names := store.KnownCanonicalNames()
	if len(names) != 2 {
		t.Fatalf("KnownCanonicalNames() returned %d names, want 2", len(names))
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["Facility"] || !seen["Mineshaft"] {
		t.Errorf("KnownCanonicalNames() = %v, want Facility and Mineshaft", names)
	}
}

// TestOverrideStore_PersistsThroughGdata 覆盖值经 gdata 持久化，
// 新的 store 实例能读回
func TestOverrideStore_PersistsThroughGdata(t *testing.T) {
	manager := createTestGdataManager(t, "overrides")

	store := NewOverrideStore(manager)
	store.SetOverride("Facility", "The Old Plant")
	store.EnsureEntry("Mineshaft")

	// 模拟重启：同一存储上的全新实例
	reloaded := NewOverrideStore(manager)

	value, exists := reloaded.Lookup("Facility")
	if !exists || value != "The Old Plant" {
		t.Errorf("Lookup(Facility) = (%q, %v), want (\"The Old Plant\", true)", value, exists)
	}

	value, exists = reloaded.Lookup("Mineshaft")
	if !exists || value != "" {
		t.Errorf("Lookup(Mineshaft) = (%q, %v), want (\"\", true)", value, exists)
	}

	if _, exists := reloaded.Lookup("Never Seen"); exists {
		t.Error("Lookup(Never Seen) should not find an entry")
	}
}

// TestOverrideStore_DegradedModeWithoutGdata manager 为 nil 时
// 仅内存工作，不报错
func TestOverrideStore_DegradedModeWithoutGdata(t *testing.T) {
	store := NewOverrideStore(nil)

	store.SetOverride("Facility", "X")
	if value, exists := store.Lookup("Facility"); !exists || value != "X" {
		t.Errorf("Lookup() = (%q, %v), want (\"X\", true)", value, exists)
	}
}
