package frames

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// deterministicUUID derives a stable UUID from a key using go-hashid. Keys
// are prefixed by domain and entity type to prevent cross-entity collisions.
func deterministicUUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// FrameUUID derives the identifier for a frame from its slug, keeping
// repeated provisioning runs idempotent.
func FrameUUID(slug string) uuid.UUID {
	return deterministicUUID("go-inframe:frame:" + strings.ToLower(strings.TrimSpace(slug)))
}

// TranslationUUID derives the identifier for a frame translation.
func TranslationUUID(frameID uuid.UUID, localeCode string) uuid.UUID {
	return deterministicUUID("go-inframe:frame_translation:" + frameID.String() + ":" + strings.ToLower(strings.TrimSpace(localeCode)))
}
