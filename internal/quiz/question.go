package quiz

const (
	// QuestionsPerGame is fixed by the game rules: every session is exactly
	// ten questions, answered in order.
	QuestionsPerGame = 10

	// OptionsPerQuestion is the number of choices each question carries.
	OptionsPerQuestion = 4

	// WinThreshold is the minimum final score that counts as a win. It is a
	// fixed business rule shared with the history store and any reporting
	// surface; do not make it per-session.
	WinThreshold = 7
)

// Difficulty labels a question batch requested from the provider.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Question is immutable once validated. CorrectIndex must never reach a
// client before the question has been answered, which is why the public
// view is split out.
type Question struct {
	PublicQuestion
	CorrectIndex int
	Difficulty   Difficulty
}

// PublicQuestion is the client-safe view of a question.
type PublicQuestion struct {
	Index   int      `json:"index"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// Public strips the answer from a question.
func (q Question) Public() PublicQuestion {
	return q.PublicQuestion
}

// ToPublicQuestions strips answers from a whole set.
func ToPublicQuestions(questions []Question) []PublicQuestion {
	public := make([]PublicQuestion, 0, len(questions))
	for _, question := range questions {
		public = append(public, question.PublicQuestion)
	}
	return public
}
