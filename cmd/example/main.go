package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	urlkit "github.com/goliatone/go-urlkit"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	inframe "github.com/devix-tecnologia/go-inframe"
	"github.com/devix-tecnologia/go-inframe/frames"
	"github.com/devix-tecnologia/go-inframe/internal/di"
	"github.com/devix-tecnologia/go-inframe/internal/identity"
	"github.com/devix-tecnologia/go-inframe/pkg/interfaces"
)

func main() {
	ctx := context.Background()

	sqlDB, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer sqlDB.Close()
	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())

	cfg := inframe.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Features.Provisioning = true
	cfg.Features.HTTP = true
	cfg.Features.Logger = true
	cfg.Logging.Provider = "console"
	cfg.Logging.Level = "info"
	cfg.HostAPI.RouteConfig = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "host",
				BaseURL: envOr("INFRAME_HOST_URL", "https://cms.example.com"),
				Paths: map[string]string{
					"users_me": "/users/me",
					"token":    "/inframe-token",
				},
			},
		},
	}

	module, err := inframe.New(cfg,
		di.WithBunDB(bunDB),
		// The example stands in for the host platform, so identity and
		// token come from static providers instead of the HostAPI client.
		di.WithIdentityProvider(&identity.StaticIdentityProvider{User: &interfaces.UserIdentity{
			ID:        "5f6c1b2a-9d3e-4f70-8a1b-c2d3e4f50607",
			Email:     "ada@example.com",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Role:      "admin",
			Language:  "pt-BR",
		}}),
		di.WithTokenProvider(&identity.StaticTokenProvider{Token: "example-session-token"}),
	)
	if err != nil {
		log.Fatalf("new module: %v", err)
	}

	if err := module.Provision(ctx); err != nil {
		log.Fatalf("provision: %v", err)
	}

	dashboard, err := module.Frames().Create(ctx, frames.CreateFrameInput{
		Slug:            "sales-dashboard",
		URL:             "https://dashboard.example.com/report?auth=$token&user=$user_email&ts=$timestamp",
		Status:          frames.StatusPublished,
		Sort:            1,
		SandboxTokens:   []string{"allow-scripts", "allow-forms", "allow-downloads"},
		AllowDirectives: []string{"clipboard-write", "fullscreen"},
		Translations: []frames.TranslationInput{
			{LocaleCode: "en-US", Title: "Sales dashboard"},
			{LocaleCode: "pt-BR", Title: "Painel de vendas"},
		},
	})
	if err != nil {
		log.Fatalf("create frame: %v", err)
	}

	resolved, err := module.Resolver().ProcessURL(ctx, dashboard.URL)
	if err != nil {
		log.Fatalf("resolve url: %v", err)
	}
	fmt.Printf("resolved url: %s\n", resolved)

	attrs, err := module.Frames().Attributes(ctx, dashboard.ID)
	if err != nil {
		log.Fatalf("attributes: %v", err)
	}
	encoded, _ := json.MarshalIndent(attrs, "", "  ")
	fmt.Printf("iframe attributes:\n%s\n", encoded)

	preset := frames.ApplyPreset("dashboard-bi")
	fmt.Printf("dashboard-bi preset: sandbox=%q allow=%q\n", preset.Sandbox, preset.Allow)

	if len(os.Args) > 1 && os.Args[1] == "serve" {
		mux := http.NewServeMux()
		if err := module.API().Register(mux); err != nil {
			log.Fatalf("register api: %v", err)
		}
		addr := envOr("INFRAME_ADDR", ":8080")
		fmt.Printf("listening on %s\n", addr)
		log.Fatal(http.ListenAndServe(addr, mux))
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
