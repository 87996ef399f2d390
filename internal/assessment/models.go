package assessment

// Question is a stored test question. Options and CorrectAnswer are set
// only for mcq; long_answer marking happens by hand.
type Question struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"` // mcq, one_word, long_answer
	Text          string   `json:"text"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Points        int      `json:"points"`
	OrderIndex    int      `json:"order_index"`
}

type Test struct {
	ID        string     `json:"id"`
	ClassID   string     `json:"class_id"`
	Subject   string     `json:"subject"`
	Title     string     `json:"title"`
	MaxPoints int        `json:"max_points"`
	Questions []Question `json:"questions"`
	CreatedBy string     `json:"created_by,omitempty"`
	CreatedAt int64      `json:"created_at,omitempty"`
}

// TotalPoints sums question points; kept on the row as max_points so
// marks validation doesn't need the questions blob.
func (t Test) TotalPoints() int {
	total := 0
	for _, q := range t.Questions {
		total += q.Points
	}
	return total
}

const (
	MarkEntered = "entered"
	MarkAbsent  = "absent"
)

// MarkEntry is one student's result keyed in during offline marks entry.
type MarkEntry struct {
	StudentID string `json:"student_id"`
	Marks     int    `json:"marks"`
	Status    string `json:"status"` // entered|absent
}

// MarksSummary is the running progress a teacher sees while entering
// marks for a test.
type MarksSummary struct {
	TestID    string  `json:"test_id"`
	MaxPoints int     `json:"max_points"`
	Roster    int     `json:"roster"`
	Entered   int     `json:"entered"`
	Absent    int     `json:"absent"`
	Pending   int     `json:"pending"`
	Mean      float64 `json:"mean"`
	Highest   int     `json:"highest"`
	Lowest    int     `json:"lowest"`
	PassRate  float64 `json:"pass_rate"`
}
