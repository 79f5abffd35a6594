package inframe_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	inframe "github.com/devix-tecnologia/go-inframe"
	"github.com/devix-tecnologia/go-inframe/frames"
	"github.com/devix-tecnologia/go-inframe/internal/di"
	"github.com/devix-tecnologia/go-inframe/internal/identity"
	"github.com/devix-tecnologia/go-inframe/pkg/interfaces"
	"github.com/devix-tecnologia/go-inframe/pkg/testsupport"
	"github.com/devix-tecnologia/go-inframe/resolver"
)

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func TestModule_MemoryStorageEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := inframe.DefaultConfig()

	module, err := inframe.New(cfg,
		di.WithIdentityProvider(&identity.StaticIdentityProvider{User: &interfaces.UserIdentity{
			ID:        "8f14a6c2-1a69-4f0a-9a27-2f0f1f6f2d11",
			Email:     "ada@example.com",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Role:      "admin",
			Language:  "pt-BR",
		}}),
		di.WithTokenProvider(&identity.StaticTokenProvider{Token: "test-access-token-xyz"}),
	)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	created, err := module.Frames().Create(ctx, frames.CreateFrameInput{
		Slug:          "sales-dashboard",
		URL:           "https://dashboard.example.com/report?auth=$token&user=$user_email",
		Status:        frames.StatusPublished,
		Sort:          2,
		SandboxTokens: []string{"allow-scripts", "allow-forms", "not-a-token"},
		AllowDirectives: []string{
			"clipboard-write",
			"camera 'self'",
			"teleportation",
		},
		FrameTitle: strPtr("Sales dashboard"),
		Translations: []frames.TranslationInput{
			{LocaleCode: "pt-BR", Title: "Painel de vendas"},
		},
	})
	if err != nil {
		t.Fatalf("create frame: %v", err)
	}

	if _, err := module.Frames().Create(ctx, frames.CreateFrameInput{
		Slug:   "wiki",
		URL:    "https://wiki.example.com",
		Status: frames.StatusPublished,
		Sort:   1,
	}); err != nil {
		t.Fatalf("create second frame: %v", err)
	}

	listed, err := module.Frames().List(ctx, frames.ListOptions{
		Status: frames.StatusPublished,
		Locale: "pt-BR",
	})
	if err != nil {
		t.Fatalf("list frames: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(listed))
	}
	if listed[0].Slug != "wiki" || listed[1].Slug != "sales-dashboard" {
		t.Fatalf("expected sort ordering, got %s then %s", listed[0].Slug, listed[1].Slug)
	}

	if title := module.Frames().DisplayTitle(listed[1], "pt-BR"); title != "Painel de vendas" {
		t.Fatalf("unexpected localized title %q", title)
	}
	if title := module.Frames().DisplayTitle(listed[0], "pt-BR"); title != "Item inFrame" {
		t.Fatalf("expected fallback title, got %q", title)
	}

	attrs, err := module.Frames().Attributes(ctx, created.ID)
	if err != nil {
		t.Fatalf("attributes: %v", err)
	}
	if attrs.Sandbox != "allow-scripts allow-forms" {
		t.Fatalf("unexpected sandbox %q", attrs.Sandbox)
	}
	if attrs.Allow != "clipboard-write; camera 'self'" {
		t.Fatalf("unexpected allow %q", attrs.Allow)
	}
	if attrs.Title != "Sales dashboard" {
		t.Fatalf("unexpected title %q", attrs.Title)
	}

	resolved, err := module.Resolver().ProcessURL(ctx, created.URL)
	if err != nil {
		t.Fatalf("process url: %v", err)
	}
	want := "https://dashboard.example.com/report?auth=test-access-token-xyz&user=ada%40example.com"
	if resolved != want {
		t.Fatalf("unexpected resolved url %q", resolved)
	}
}

func TestModule_RejectsTokenOverHTTP(t *testing.T) {
	t.Parallel()

	module, err := inframe.New(inframe.DefaultConfig(),
		di.WithTokenProvider(&identity.StaticTokenProvider{Token: "secret"}),
	)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	_, err = module.Resolver().ProcessURL(context.Background(), "http://insecure.example.com/report?auth=$token")
	if err == nil {
		t.Fatal("expected security error")
	}
	if !errors.Is(err, resolver.ErrSecurityPolicy) {
		t.Fatalf("expected ErrSecurityPolicy, got %v", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "SECURITY ERROR") || !strings.Contains(msg, "HTTPS") {
		t.Fatalf("expected message naming the HTTPS requirement, got %q", msg)
	}
}

func TestModule_BunStorageWithProvisioning(t *testing.T) {
	ctx := context.Background()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())

	cfg := inframe.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Features.Provisioning = true
	cfg.Cache.Enabled = true

	module, err := inframe.New(cfg, di.WithBunDB(bunDB))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	if err := module.Provision(ctx); err != nil {
		t.Fatalf("provision: %v", err)
	}
	// Second run must converge without error.
	if err := module.Provision(ctx); err != nil {
		t.Fatalf("re-provision: %v", err)
	}

	created, err := module.Frames().Create(ctx, frames.CreateFrameInput{
		Slug:            "metabase",
		URL:             "https://bi.example.com/embed?ts=$timestamp",
		Status:          frames.StatusPublished,
		AllowFullscreen: boolPtr(false),
		Translations: []frames.TranslationInput{
			{LocaleCode: "en-US", Title: "Metabase"},
			{LocaleCode: "pt-BR", Title: "Painel BI"},
		},
	})
	if err != nil {
		t.Fatalf("create frame: %v", err)
	}

	fetched, err := module.Frames().GetBySlug(ctx, "metabase")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("expected id %s, got %s", created.ID, fetched.ID)
	}
	if len(fetched.Translations) != 2 {
		t.Fatalf("expected 2 translations, got %d", len(fetched.Translations))
	}

	attrs, err := module.Frames().Attributes(ctx, created.ID)
	if err != nil {
		t.Fatalf("attributes: %v", err)
	}
	if attrs.AllowFullscreen {
		t.Fatal("explicit allowfullscreen=false must be respected")
	}
	if attrs.Sandbox == "" || attrs.Allow == "" {
		t.Fatal("expected default sandbox/allow fallbacks")
	}

	if err := module.Frames().Delete(ctx, frames.DeleteFrameRequest{ID: created.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := module.Frames().GetBySlug(ctx, "metabase"); err == nil {
		t.Fatal("expected lookup failure after delete")
	}
}
