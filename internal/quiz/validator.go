package quiz

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseReason classifies why a provider batch was rejected.
type ParseReason string

const (
	ParseWrongCount            ParseReason = "wrong_count"
	ParseMissingField          ParseReason = "missing_field"
	ParseDuplicateOptions      ParseReason = "duplicate_options"
	ParseNoSingleCorrectAnswer ParseReason = "no_single_correct_answer"
	ParseUnparsableFormat      ParseReason = "unparsable_format"
)

// ParseError rejects an entire provider batch. A single malformed entry
// invalidates the whole set: the game cannot tolerate index gaps mid-session.
type ParseError struct {
	Reason ParseReason
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invalid question batch: %s", e.Reason)
	}
	return fmt.Sprintf("invalid question batch: %s: %s", e.Reason, e.Detail)
}

func parseFailure(reason ParseReason, format string, args ...any) *ParseError {
	return &ParseError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// rawQuestion mirrors one entry of the provider's numbered-JSON payload.
type rawQuestion struct {
	Question   string            `json:"question"`
	Options    map[string]string `json:"options"`
	Correct    string            `json:"correct"`
	Difficulty string            `json:"difficulty"`
}

var optionLetters = []string{"a", "b", "c", "d"}

// ParseQuestionSet turns the provider's raw text into exactly count validated
// questions or a *ParseError. It is a pure transformation: no retries, no
// partial results, no coercion of malformed entries.
//
// The expected payload is a JSON object keyed by question number ("1".."N"),
// each value holding a question, four options keyed a-d, and the correct
// letter. Providers occasionally wrap the JSON in markdown code fences, so
// those are stripped before decoding.
func ParseQuestionSet(raw string, count int) ([]Question, error) {
	cleaned := stripCodeFences(raw)
	if strings.TrimSpace(cleaned) == "" {
		return nil, parseFailure(ParseUnparsableFormat, "empty provider response")
	}

	var numbered map[string]rawQuestion
	if err := json.Unmarshal([]byte(cleaned), &numbered); err != nil {
		return nil, parseFailure(ParseUnparsableFormat, "decode: %v", err)
	}

	if len(numbered) != count {
		return nil, parseFailure(ParseWrongCount, "expected %d questions, got %d", count, len(numbered))
	}

	keys := make([]string, 0, len(numbered))
	for key := range numbered {
		if _, err := strconv.Atoi(key); err != nil {
			return nil, parseFailure(ParseUnparsableFormat, "non-numeric question key %q", key)
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})

	questions := make([]Question, 0, count)
	for _, key := range keys {
		question, err := buildQuestion(key, numbered[key])
		if err != nil {
			return nil, err
		}
		question.Index = len(questions)
		questions = append(questions, question)
	}

	return questions, nil
}

func buildQuestion(key string, entry rawQuestion) (Question, error) {
	prompt := strings.TrimSpace(entry.Question)
	if prompt == "" {
		return Question{}, parseFailure(ParseMissingField, "question %s has no prompt", key)
	}

	if len(entry.Options) != OptionsPerQuestion {
		return Question{}, parseFailure(ParseMissingField, "question %s has %d options, want %d", key, len(entry.Options), OptionsPerQuestion)
	}

	options := make([]string, 0, OptionsPerQuestion)
	seen := make(map[string]struct{}, OptionsPerQuestion)
	for _, letter := range optionLetters {
		text, ok := entry.Options[letter]
		if !ok {
			return Question{}, parseFailure(ParseMissingField, "question %s is missing option %q", key, letter)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return Question{}, parseFailure(ParseMissingField, "question %s has an empty option %q", key, letter)
		}
		folded := strings.ToLower(text)
		if _, dup := seen[folded]; dup {
			return Question{}, parseFailure(ParseDuplicateOptions, "question %s repeats option text %q", key, text)
		}
		seen[folded] = struct{}{}
		options = append(options, text)
	}

	correct := strings.ToLower(strings.TrimSpace(entry.Correct))
	correctIndex := -1
	for idx, letter := range optionLetters {
		if correct == letter {
			correctIndex = idx
			break
		}
	}
	if correctIndex < 0 {
		return Question{}, parseFailure(ParseNoSingleCorrectAnswer, "question %s marks %q as correct", key, entry.Correct)
	}

	return Question{
		PublicQuestion: PublicQuestion{
			Prompt:  prompt,
			Options: options,
		},
		CorrectIndex: correctIndex,
		Difficulty:   Difficulty(strings.ToUpper(strings.TrimSpace(entry.Difficulty))),
	}, nil
}

// stripCodeFences removes markdown ```json fences the provider sometimes
// wraps its output in, despite being told not to.
func stripCodeFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
