package service

import (
	"ailearn_backend/internal/model"
	"ailearn_backend/internal/repository"
	"ailearn_backend/internal/util"
	"ailearn_backend/pkg/cache"
	"context"
	"errors"
	"testing"
	"time"
)

func newToolService(t *testing.T) (*ToolService, *repository.ToolRepository) {
	t.Helper()
	db := newTestDB(t)
	repo := repository.NewToolRepository(db)
	return NewToolService(repo, cache.New(nil), time.Hour), repo
}

func seedTool(t *testing.T, svc *ToolService, name, slug, category string, published bool) *model.AITool {
	t.Helper()
	tool, err := svc.CreateTool(ToolRequest{
		Name:      name,
		Slug:      slug,
		Category:  category,
		Pricing:   "freemium",
		Published: published,
	})
	if err != nil {
		t.Fatal(err)
	}
	return tool
}

func TestListToolsFiltersAndPagination(t *testing.T) {
	svc, _ := newToolService(t)
	ctx := context.Background()

	seedTool(t, svc, "ChatGPT", "chatgpt", "chatbot", true)
	seedTool(t, svc, "Claude", "claude", "chatbot", true)
	seedTool(t, svc, "Midjourney", "midjourney", "image", true)
	seedTool(t, svc, "Draft", "draft", "chatbot", false)

	all, err := svc.ListTools(ctx, repository.ToolFilter{}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if all.Total != 3 {
		t.Errorf("total = %d, want 3 (unpublished excluded)", all.Total)
	}

	chatbots, err := svc.ListTools(ctx, repository.ToolFilter{Category: "chatbot"}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if chatbots.Total != 2 {
		t.Errorf("chatbot total = %d, want 2", chatbots.Total)
	}

	paged, err := svc.ListTools(ctx, repository.ToolFilter{}, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(paged.List) != 2 || paged.Total != 3 {
		t.Errorf("page len = %d, total = %d, want 2, 3", len(paged.List), paged.Total)
	}
}

func TestListToolsCacheInvalidatedOnWrite(t *testing.T) {
	svc, _ := newToolService(t)
	ctx := context.Background()

	seedTool(t, svc, "ChatGPT", "chatgpt", "chatbot", true)

	first, err := svc.ListTools(ctx, repository.ToolFilter{}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if first.Total != 1 {
		t.Fatalf("total = %d, want 1", first.Total)
	}

	// 新增会失效列表缓存，TTL 内也能看到新条目
	seedTool(t, svc, "Claude", "claude", "chatbot", true)

	second, err := svc.ListTools(ctx, repository.ToolFilter{}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if second.Total != 2 {
		t.Errorf("total = %d, want 2 after create invalidates cache", second.Total)
	}
}

func TestGetToolBySlug(t *testing.T) {
	svc, _ := newToolService(t)

	seedTool(t, svc, "ChatGPT", "chatgpt", "chatbot", true)
	seedTool(t, svc, "Draft", "draft", "chatbot", false)

	tool, err := svc.GetToolBySlug("chatgpt")
	if err != nil {
		t.Fatal(err)
	}
	if tool.Name != "ChatGPT" {
		t.Errorf("name = %s, want ChatGPT", tool.Name)
	}

	if _, err := svc.GetToolBySlug("draft"); !errors.Is(err, util.ErrToolNotFound) {
		t.Errorf("unpublished err = %v, want ErrToolNotFound", err)
	}
	if _, err := svc.GetToolBySlug("nope"); !errors.Is(err, util.ErrToolNotFound) {
		t.Errorf("missing err = %v, want ErrToolNotFound", err)
	}
}

func TestRecordClick(t *testing.T) {
	svc, repo := newToolService(t)

	tool := seedTool(t, svc, "ChatGPT", "chatgpt", "chatbot", true)

	for i := 0; i < 3; i++ {
		if err := svc.RecordClick("chatgpt"); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.FindByID(tool.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Clicks != 3 {
		t.Errorf("clicks = %d, want 3", got.Clicks)
	}
}
