package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewStorageProvider(t *testing.T) {
	// 缺省走本地存储
	provider, err := NewStorageProvider(&StorageConfig{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if _, ok := provider.(*LocalStorage); !ok {
		t.Errorf("缺省 provider 类型 = %T, want *LocalStorage", provider)
	}

	if _, err := NewStorageProvider(&StorageConfig{Provider: "ftp"}); err == nil {
		t.Error("未知 provider 应报错")
	}
}

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(&StorageConfig{BasePath: base, BaseURL: "http://localhost:8080/uploads"})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	ctx := context.Background()

	url, err := storage.Upload(ctx, []byte("fake image data"), "photo.png", "image/png")
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8080/uploads/") {
		t.Errorf("URL 前缀错误: %s", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("应保留扩展名: %s", url)
	}
	if strings.Contains(url, "photo") {
		t.Errorf("文件名应替换为 uuid: %s", url)
	}

	// 文件真实落盘
	rel := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	data, err := os.ReadFile(filepath.Join(base, rel))
	if err != nil {
		t.Fatalf("读取上传文件失败: %v", err)
	}
	if string(data) != "fake image data" {
		t.Error("文件内容不一致")
	}

	if err := storage.Delete(ctx, url); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, rel)); !os.IsNotExist(err) {
		t.Error("删除后文件应不存在")
	}

	// 不是本服务的 URL 拒绝删除
	if err := storage.Delete(ctx, "https://other.example.com/x.png"); err == nil {
		t.Error("外部 URL 应报错")
	}
}

func TestLocalStorage_DefaultExtension(t *testing.T) {
	storage, err := NewLocalStorage(&StorageConfig{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	url, err := storage.Upload(context.Background(), []byte("data"), "noext", "")
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("无扩展名应默认 .jpg: %s", url)
	}
}
