package evaluation

import "github.com/abhisek/flashcarding/internal/deck"

// Summary scores an evaluation run.
type Summary struct {
	Correct  int
	Total    int
	Answered int
	Percent  float64
	Lectures []LectureScore
	Rows     []Row
}

// LectureScore is the per-lecture breakdown.
type LectureScore struct {
	LectureID string
	Title     string
	Total     int
	Correct   int
}

// Row is one answered item.
type Row struct {
	ItemID      string
	Term        string
	ChosenText  string
	CorrectText string
	Correct     bool
}

// Summarize scores run. Lectures appear in the order their first item does;
// a deleted lecture keeps its id as title. Percent is 0 for a run with no
// items.
func Summarize(st *deck.State, run *deck.EvaluationRun) Summary {
	s := Summary{Total: len(run.Items)}

	byLecture := map[string]int{}
	for _, it := range run.Items {
		idx, ok := byLecture[it.LectureID]
		if !ok {
			title := it.LectureID
			if l, err := st.Lecture(it.LectureID); err == nil {
				title = l.Title
			}
			idx = len(s.Lectures)
			byLecture[it.LectureID] = idx
			s.Lectures = append(s.Lectures, LectureScore{LectureID: it.LectureID, Title: title})
		}
		s.Lectures[idx].Total++

		resp, answered := run.Response(it.ID)
		if !answered {
			continue
		}
		s.Answered++
		if resp.Correct {
			s.Correct++
			s.Lectures[idx].Correct++
		}
		row := Row{ItemID: it.ID, Term: it.Stem, Correct: resp.Correct}
		if resp.ChosenIndex >= 0 && resp.ChosenIndex < len(it.Options) {
			row.ChosenText = it.Options[resp.ChosenIndex].Text
		}
		if it.AnswerIndex >= 0 && it.AnswerIndex < len(it.Options) {
			row.CorrectText = it.Options[it.AnswerIndex].Text
		}
		s.Rows = append(s.Rows, row)
	}

	if s.Total > 0 {
		s.Percent = float64(s.Correct) * 100 / float64(s.Total)
	}
	return s
}
