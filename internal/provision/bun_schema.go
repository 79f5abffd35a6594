package provision

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/devix-tecnologia/go-inframe/frames"
)

// BunSchemaService creates the backing tables and indexes through bun.
type BunSchemaService struct {
	db *bun.DB
}

// NewBunSchemaService constructs the schema service.
func NewBunSchemaService(db *bun.DB) *BunSchemaService {
	return &BunSchemaService{db: db}
}

// Apply creates the frame tables when missing. Safe to run repeatedly.
func (s *BunSchemaService) Apply(ctx context.Context) error {
	models := []any{
		(*frames.Frame)(nil),
		(*frames.Translation)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	if _, err := s.db.ExecContext(ctx,
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_inframe_frame_translations_frame_locale_unique ON inframe_frame_translations(frame_id, locale_code)"); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_inframe_frames_slug_unique ON inframe_frames(slug)"); err != nil {
		return err
	}
	return nil
}
