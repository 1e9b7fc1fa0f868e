package importer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/llmlog/internal/models"
	"github.com/balkashynov/llmlog/internal/parser"
)

// ErrInvalidDocument is returned for session files that are not a JSON object
// with llm_name and an interactions list. Nothing is written in that case.
var ErrInvalidDocument = errors.New("invalid session document")

// SessionResult summarises one session document import
type SessionResult struct {
	InsertedSessions     int  `json:"inserted_sessions"`
	InsertedInteractions int  `json:"inserted_interactions"`
	SkippedDuplicates    int  `json:"skipped_duplicates"`
	SessionID            uint `json:"session_id,omitempty"`
}

// ImportSessionDocument imports one session transcript. A document whose
// canonical form was imported before is skipped without writing anything.
// Malformed interaction entries are dropped individually.
func (imp *Importer) ImportSessionDocument(ctx context.Context, path string) (SessionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SessionResult{}, fmt.Errorf("read session document: %w", err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return SessionResult{}, err
	}

	llmName, _ := doc["llm_name"].(string)
	entries, isList := doc["interactions"].([]interface{})
	if strings.TrimSpace(llmName) == "" || !isList {
		return SessionResult{}, fmt.Errorf("%w: llm_name and interactions[] are required", ErrInvalidDocument)
	}

	checksum, err := documentChecksum(doc)
	if err != nil {
		return SessionResult{}, err
	}

	exists, err := imp.store.SessionExists(ctx, checksum)
	if err != nil {
		return SessionResult{}, err
	}
	if exists {
		imp.logger.Info("session already imported", "path", path, "checksum", checksum)
		return SessionResult{SkippedDuplicates: 1}, nil
	}

	name := parser.NormalizeModelName(llmName)
	var startedAt *time.Time
	if text, ok := doc["started_at"].(string); ok {
		startedAt = parser.ParseToUTCPtr(text)
	}

	interactions := make([]models.Interaction, 0, len(entries))
	for i, entry := range entries {
		interaction, ok := buildInteraction(entry, startedAt)
		if !ok {
			continue
		}
		position := i
		interaction.Position = &position
		interaction.LLMName = &name
		interactions = append(interactions, interaction)
	}
	if dropped := len(entries) - len(interactions); dropped > 0 {
		imp.logger.Debug("dropped invalid interactions", "path", path, "dropped", dropped)
	}

	session := &models.Session{
		SessionGUID:      scalarText(doc["session_guid"]),
		SessionTimestamp: startedAt,
		LLMName:          name,
		SourceFile:       path,
		ImportedAt:       imp.now().UTC(),
		ImportBatchID:    imp.newBatchID(),
		Checksum:         checksum,
	}

	id, err := imp.store.InsertSessionWithInteractions(ctx, session, interactions)
	if err != nil {
		return SessionResult{}, err
	}

	imp.logger.Info("session imported",
		"path", path,
		"session_id", id,
		"interactions", len(interactions),
		"batch_id", session.ImportBatchID,
	)
	return SessionResult{
		InsertedSessions:     1,
		InsertedInteractions: len(interactions),
		SessionID:            id,
	}, nil
}

// decodeDocument parses the file as exactly one JSON object, keeping numbers verbatim
func decodeDocument(data []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(stripBOM(data)))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after the document", ErrInvalidDocument)
	}

	doc, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: document must be a JSON object", ErrInvalidDocument)
	}
	return doc, nil
}

// documentChecksum hashes the canonical serialization: sorted keys, no
// insignificant whitespace, numbers as written.
func documentChecksum(doc map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("canonicalize session document: %w", err)
	}

	sum := sha256.Sum256(bytes.TrimRight(buf.Bytes(), "\n"))
	return hex.EncodeToString(sum[:]), nil
}

// buildInteraction validates one interactions[] entry
func buildInteraction(entry interface{}, startedAt *time.Time) (models.Interaction, bool) {
	item, ok := entry.(map[string]interface{})
	if !ok {
		return models.Interaction{}, false
	}

	for _, key := range []string{"t_ms", "situation_id", "prompt", "response"} {
		if item[key] == nil {
			return models.Interaction{}, false
		}
	}

	offset, ok := offsetMS(item["t_ms"])
	if !ok || offset < 0 {
		return models.Interaction{}, false
	}

	interaction := models.Interaction{
		OffsetMS:    offset,
		SituationID: text(item["situation_id"]),
		Prompt:      text(item["prompt"]),
		Response:    text(item["response"]),
	}

	if startedAt != nil {
		if ts, ok := offsetTime(*startedAt, offset); ok {
			interaction.InteractionTimestamp = &ts
		}
	}

	switch item["extra"].(type) {
	case map[string]interface{}, []interface{}:
		if extra, err := json.Marshal(item["extra"]); err == nil {
			s := string(extra)
			interaction.Extra = &s
		}
	}

	return interaction, true
}

// latestTimestampMS is the last instant that still renders as a four-digit year
var latestTimestampMS = time.Date(9999, 12, 31, 23, 59, 59, 999_000_000, time.UTC).UnixMilli()

// offsetTime adds offset milliseconds to start in millisecond arithmetic, so
// offsets past the time.Duration range do not wrap. ok is false when the
// result lies beyond year 9999.
func offsetTime(start time.Time, offset int) (time.Time, bool) {
	startMS := start.UnixMilli()
	if int64(offset) > latestTimestampMS-startMS {
		return time.Time{}, false
	}
	subMS := time.Duration(start.Nanosecond() % int(time.Millisecond))
	return time.UnixMilli(startMS + int64(offset)).Add(subMS).UTC(), true
}

// offsetMS reads t_ms given as a JSON number or a numeric string
func offsetMS(v interface{}) (int, bool) {
	switch x := v.(type) {
	case json.Number:
		return parseInteger(x.String())
	case string:
		return parseInteger(x)
	default:
		return 0, false
	}
}

// text renders a JSON value as stored text; strings are kept as is
func text(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// scalarText returns strings, numbers and booleans as text and nil otherwise
func scalarText(v interface{}) *string {
	switch v.(type) {
	case string, json.Number, bool:
		s := text(v)
		return &s
	default:
		return nil
	}
}
