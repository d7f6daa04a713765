package driver_test

import (
	"testing"

	"pyrite/internal/driver"
	"pyrite/internal/fnbuild"
	"pyrite/internal/rtlayout"
)

func TestDiskCache_PutGet(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := driver.OpenDiskCache("pyrite-test")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	code := loadConstReturn("f")
	key, err := driver.TranslationKey(code, fnbuild.ModeRelease, rtlayout.X86_64LinuxGNU())
	if err != nil {
		t.Fatalf("key: %v", err)
	}

	var miss driver.DiskPayload
	if hit, err := cache.Get(key, &miss); err != nil || hit {
		t.Fatalf("empty cache: hit=%t err=%v, want a clean miss", hit, err)
	}

	put := driver.DiskPayload{Name: "f", Mode: "release", Target: "x86_64-linux-gnu", IRText: "; module \"f\"\n"}
	if err := cache.Put(key, &put); err != nil {
		t.Fatalf("put: %v", err)
	}

	var got driver.DiskPayload
	hit, err := cache.Get(key, &got)
	if err != nil || !hit {
		t.Fatalf("get: hit=%t err=%v, want a hit", hit, err)
	}
	if got.IRText != put.IRText || got.Name != put.Name {
		t.Fatalf("payload round trip changed: %+v", got)
	}
}

func TestTranslationKey_SensitiveToInputs(t *testing.T) {
	code := loadConstReturn("f")
	base, err := driver.TranslationKey(code, fnbuild.ModeRelease, rtlayout.X86_64LinuxGNU())
	if err != nil {
		t.Fatalf("key: %v", err)
	}

	debugKey, err := driver.TranslationKey(code, fnbuild.ModeDebug, rtlayout.X86_64LinuxGNU())
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	if debugKey == base {
		t.Error("debug and release share a cache key")
	}

	other := loadConstReturn("g")
	otherKey, err := driver.TranslationKey(other, fnbuild.ModeRelease, rtlayout.X86_64LinuxGNU())
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	if otherKey == base {
		t.Error("distinct code objects share a cache key")
	}

	again, err := driver.TranslationKey(loadConstReturn("f"), fnbuild.ModeRelease, rtlayout.X86_64LinuxGNU())
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	if again != base {
		t.Error("identical inputs produced different cache keys")
	}
}

func TestDiskCache_NilIsNoOp(t *testing.T) {
	var cache *driver.DiskCache
	if err := cache.Put(driver.Digest{}, &driver.DiskPayload{}); err != nil {
		t.Fatalf("nil put: %v", err)
	}
	if hit, err := cache.Get(driver.Digest{}, &driver.DiskPayload{}); err != nil || hit {
		t.Fatalf("nil get: hit=%t err=%v", hit, err)
	}
}
