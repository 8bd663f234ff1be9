package gameclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultServer      = "http://127.0.0.1:8080"
	defaultHTTPTimeout = 90 * time.Second
)

var answerLetters = []string{"a", "b", "c", "d"}

type Config struct {
	UserID      string
	Topic       string
	ServerURL   string
	HTTPTimeout time.Duration
}

// Run plays one full game interactively: start a session for the topic, ask
// each question in order, submit the chosen letters, and print the verdict.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	userID := strings.TrimSpace(cfg.UserID)
	if userID == "" {
		return errors.New("user id is required")
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		return errors.New("topic is required")
	}

	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := NewHTTPClient(serverURL, &http.Client{Timeout: timeout})
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "Generating %q quiz, hang on...\n", topic)
	started, err := client.StartQuiz(ctx, userID, topic)
	if err != nil {
		return err
	}

	question := &started.Question
	for question != nil {
		printQuestion(out, question, started.QuestionCount)

		choice, err := promptChoice(reader, out, len(question.Options))
		if err != nil {
			return err
		}

		outcome, err := client.SubmitAnswer(ctx, started.SessionID, question.Index, choice)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
				// Some other submission advanced the session; resync.
				current, getErr := client.GetQuestion(ctx, started.SessionID)
				if getErr != nil {
					return getErr
				}
				question = &current
				continue
			}
			return err
		}

		if outcome.Correct {
			fmt.Fprintf(out, "Correct! Score: %d\n", outcome.Score)
		} else {
			fmt.Fprintf(out, "Wrong. Score: %d\n", outcome.Score)
		}

		if outcome.Final != nil {
			printFinal(out, outcome.Final, started.QuestionCount)
			return nil
		}
		question = outcome.Question
	}

	return nil
}

func printQuestion(out io.Writer, question *Question, total int) {
	fmt.Fprintf(out, "\nQ%d/%d: %s\n\n", question.Index+1, total, question.Prompt)
	for idx, option := range question.Options {
		fmt.Fprintf(out, "  %s. %s\n", strings.ToUpper(answerLetters[idx]), option)
	}
	fmt.Fprintln(out)
}

func printFinal(out io.Writer, final *FinalResult, total int) {
	fmt.Fprintf(out, "\nFinal score: %d/%d, you %s!\n", final.Score, total, strings.ToLower(final.Result))
	if !final.Saved {
		fmt.Fprintln(out, "(result could not be saved to your history)")
	}
}

func promptChoice(reader *bufio.Reader, out io.Writer, optionCount int) (int, error) {
	for {
		fmt.Fprint(out, "answer (a-d): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, err
		}

		letter := strings.ToLower(strings.TrimSpace(line))
		for idx, candidate := range answerLetters {
			if idx < optionCount && letter == candidate {
				return idx, nil
			}
		}
		fmt.Fprintln(out, "please answer with a single letter a-d")
	}
}
