// Package json persists sessions as versioned JSON envelopes on disk.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tableagent/tableagent"
)

// envelope is the v1 wire format for a persisted session.
type envelope struct {
	Version   int          `json:"version"`
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Tables    []tableDTO   `json:"tables,omitempty"`
	Messages  []messageDTO `json:"messages"`
}

// messageDTO is the JSON representation of a Message with a role discriminator.
type messageDTO struct {
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	Timestamp     time.Time `json:"timestamp"`
	StopReason    *string   `json:"stop_reason,omitempty"`
	RawStopReason *string   `json:"raw_stop_reason,omitempty"`
	Usage         *usageDTO `json:"usage,omitempty"`
}

type tableDTO struct {
	Name        string      `json:"name"`
	Path        string      `json:"path"`
	Description string      `json:"description,omitempty"`
	Columns     []columnDTO `json:"columns,omitempty"`
}

type columnDTO struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type usageDTO struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// MarshalSession serializes a Session to JSON in v1 envelope format.
func MarshalSession(s tableagent.Session) ([]byte, error) {
	env := envelope{
		Version:   1,
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Tables:    make([]tableDTO, len(s.Tables)),
		Messages:  make([]messageDTO, len(s.Messages)),
	}
	for i, tbl := range s.Tables {
		env.Tables[i] = marshalTable(tbl)
	}
	for i, msg := range s.Messages {
		dto, err := marshalMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		env.Messages[i] = dto
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSession deserializes a Session from JSON in v1 envelope format.
func UnmarshalSession(data []byte) (tableagent.Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return tableagent.Session{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return tableagent.Session{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	msgs := make([]tableagent.Message, len(env.Messages))
	for i, dto := range env.Messages {
		msg, err := unmarshalMessage(dto)
		if err != nil {
			return tableagent.Session{}, fmt.Errorf("message %d: %w", i, err)
		}
		msgs[i] = msg
	}
	tables := make([]tableagent.Table, len(env.Tables))
	for i, dto := range env.Tables {
		tables[i] = unmarshalTable(dto)
	}
	return tableagent.Session{
		ID:        env.ID,
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
		Tables:    tables,
		Messages:  msgs,
	}, nil
}

// Save writes a Session to a JSON file, creating parent directories as needed.
func Save(path string, s tableagent.Session) error {
	data, err := MarshalSession(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Session from a JSON file.
func Load(path string) (tableagent.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tableagent.Session{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalSession(data)
}

func marshalTable(tbl tableagent.Table) tableDTO {
	dto := tableDTO{
		Name:        tbl.Name,
		Path:        tbl.Path,
		Description: tbl.Description,
		Columns:     make([]columnDTO, len(tbl.Columns)),
	}
	for i, c := range tbl.Columns {
		dto.Columns[i] = columnDTO{Name: c.Name, Type: c.Type}
	}
	return dto
}

func unmarshalTable(dto tableDTO) tableagent.Table {
	tbl := tableagent.Table{
		Name:        dto.Name,
		Path:        dto.Path,
		Description: dto.Description,
		Columns:     make([]tableagent.Column, len(dto.Columns)),
	}
	for i, c := range dto.Columns {
		tbl.Columns[i] = tableagent.Column{Name: c.Name, Type: c.Type}
	}
	return tbl
}

func marshalMessage(msg tableagent.Message) (messageDTO, error) {
	switch m := msg.(type) {
	case tableagent.SystemMessage:
		return messageDTO{
			Role:      "system",
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}, nil
	case tableagent.UserMessage:
		return messageDTO{
			Role:      "user",
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}, nil
	case tableagent.AssistantMessage:
		sr := string(m.StopReason)
		return messageDTO{
			Role:          "assistant",
			Content:       m.Content,
			Timestamp:     m.Timestamp,
			StopReason:    &sr,
			RawStopReason: &m.RawStopReason,
			Usage:         &usageDTO{InputTokens: m.Usage.InputTokens, OutputTokens: m.Usage.OutputTokens},
		}, nil
	default:
		return messageDTO{}, fmt.Errorf("unknown message type: %T", msg)
	}
}

func unmarshalMessage(dto messageDTO) (tableagent.Message, error) {
	switch dto.Role {
	case "system":
		return tableagent.SystemMessage{
			Content:   dto.Content,
			Timestamp: dto.Timestamp,
		}, nil
	case "user":
		return tableagent.UserMessage{
			Content:   dto.Content,
			Timestamp: dto.Timestamp,
		}, nil
	case "assistant":
		var sr tableagent.StopReason
		if dto.StopReason != nil {
			sr = tableagent.StopReason(*dto.StopReason)
		}
		var rawSR string
		if dto.RawStopReason != nil {
			rawSR = *dto.RawStopReason
		}
		var usage tableagent.Usage
		if dto.Usage != nil {
			usage = tableagent.Usage{InputTokens: dto.Usage.InputTokens, OutputTokens: dto.Usage.OutputTokens}
		}
		return tableagent.AssistantMessage{
			Content:       dto.Content,
			StopReason:    sr,
			RawStopReason: rawSR,
			Usage:         usage,
			Timestamp:     dto.Timestamp,
		}, nil
	default:
		return nil, fmt.Errorf("unknown message role: %q", dto.Role)
	}
}
