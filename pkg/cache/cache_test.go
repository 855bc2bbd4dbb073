package cache

import (
	"errors"
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("未写入的 key 不应命中")
	}

	c.Set("k1", 42, TagItems)
	val, ok := c.Get("k1")
	if !ok {
		t.Fatal("写入后应命中")
	}
	if val.(int) != 42 {
		t.Errorf("value = %v, want 42", val)
	}
}

func TestExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Set("k1", "v", TagItems)

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k1"); ok {
		t.Error("过期条目不应命中")
	}
}

func TestInvalidateByTag(t *testing.T) {
	c := New(time.Minute)
	c.Set("item:list", 1, TagItems)
	c.Set("item:stats", 2, TagItems, TagStats)
	c.Set("wh:stats", 3, TagWarehouses)

	c.Invalidate(TagItems)

	if _, ok := c.Get("item:list"); ok {
		t.Error("item:list 应已失效")
	}
	if _, ok := c.Get("item:stats"); ok {
		t.Error("item:stats 带 items 标签，应已失效")
	}
	if _, ok := c.Get("wh:stats"); !ok {
		t.Error("wh:stats 不带 items 标签，不应失效")
	}

	// 空标签不清任何条目
	c.Invalidate()
	if _, ok := c.Get("wh:stats"); !ok {
		t.Error("Invalidate() 无标签时不应清条目")
	}
}

func TestClear(t *testing.T) {
	c := New(time.Minute)
	c.Set("k1", 1, TagItems)
	c.Set("k2", 2, TagToys)

	c.Clear()

	if _, ok := c.Get("k1"); ok {
		t.Error("Clear 后 k1 不应命中")
	}
	if _, ok := c.Get("k2"); ok {
		t.Error("Clear 后 k2 不应命中")
	}
}

func TestGetOrLoad(t *testing.T) {
	c := New(time.Minute)

	calls := 0
	loader := func() (interface{}, error) {
		calls++
		return "loaded", nil
	}

	val, err := c.GetOrLoad("k1", loader, TagMonths)
	if err != nil {
		t.Fatalf("首次加载失败: %v", err)
	}
	if val.(string) != "loaded" {
		t.Errorf("value = %v", val)
	}

	// 第二次应命中缓存，不再调用 loader
	if _, err := c.GetOrLoad("k1", loader, TagMonths); err != nil {
		t.Fatalf("二次读取失败: %v", err)
	}
	if calls != 1 {
		t.Errorf("loader 调用次数 = %d, want 1", calls)
	}
}

func TestGetOrLoad_Error(t *testing.T) {
	c := New(time.Minute)

	wantErr := errors.New("db down")
	_, err := c.GetOrLoad("k1", func() (interface{}, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}

	// 加载失败不应回填
	if _, ok := c.Get("k1"); ok {
		t.Error("失败的加载不应写入缓存")
	}
}
