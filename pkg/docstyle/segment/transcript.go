package segment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// speakerLine matches "Name: message". A colon must be followed by
// whitespace or end the line, so URLs are not mistaken for speakers.
// Names are limited to maxSpeakerWords words.
var speakerLine = regexp.MustCompile(`^\s*(\p{L}[\p{L}\p{N} ._'-]{0,39}):(?:\s+(.*))?$`)

const maxSpeakerWords = 3

// ParseTranscript splits a plain-text transcript into entries. Lines that do
// not start with a speaker label continue the previous entry.
func ParseTranscript(text string) []Entry {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var entries []Entry
	var cur *Entry
	for _, line := range strings.Split(text, "\n") {
		if m := speakerLine.FindStringSubmatch(line); m != nil && len(strings.Fields(m[1])) <= maxSpeakerWords {
			entries = append(entries, Entry{Role: strings.TrimSpace(m[1]), Text: m[2]})
			cur = &entries[len(entries)-1]
			continue
		}
		if cur == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			entries = append(entries, Entry{Text: line})
			cur = &entries[len(entries)-1]
			continue
		}
		cur.Text += "\n" + line
	}
	return entries
}

// rawMessage accepts the field spellings chat hosts use.
type rawMessage struct {
	Role    string `json:"role"`
	From    string `json:"from"`
	Name    string `json:"name"`
	Content any    `json:"content"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

func (m rawMessage) entry() Entry {
	e := Entry{Role: firstNonEmpty(m.Role, m.From, m.Name)}
	switch c := m.Content.(type) {
	case string:
		e.Text = c
	case []any:
		e.Text = joinContentParts(c)
	}
	if e.Text == "" {
		e.Text = firstNonEmpty(m.Text, m.Message)
	}
	return e
}

// joinContentParts flattens [{"type":"text","text":"..."}] style content.
func joinContentParts(parts []any) string {
	var texts []string
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			texts = append(texts, v)
		case map[string]any:
			if s, ok := v["text"].(string); ok {
				texts = append(texts, s)
			}
		}
	}
	return strings.Join(texts, "\n")
}

// DecodeEntries decodes a JSON message list. The top level may be an array
// or an object holding "messages" or "chat_messages". Items may be objects
// (role|from|name, content|text|message) or plain strings.
func DecodeEntries(data []byte) ([]Entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapper struct {
			Messages     []json.RawMessage `json:"messages"`
			ChatMessages []json.RawMessage `json:"chat_messages"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("decode messages: %w", err)
		}
		items := wrapper.Messages
		if len(items) == 0 {
			items = wrapper.ChatMessages
		}
		return decodeItems(items)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return decodeItems(items)
}

func decodeItems(items []json.RawMessage) ([]Entry, error) {
	entries := make([]Entry, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				return nil, fmt.Errorf("decode message %d: %w", i, err)
			}
			entries = append(entries, Entry{Text: s})
			continue
		}
		var m rawMessage
		if err := json.Unmarshal(item, &m); err != nil {
			return nil, fmt.Errorf("decode message %d: %w", i, err)
		}
		entries = append(entries, m.entry())
	}
	return entries, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
