package dto

// NoteRequest carries undecoded content so that validation can report
// shape errors itself.
type NoteRequest struct {
	Content any `json:"content"`
}

// PreferencesRequest is a partial update; nil fields keep their value.
type PreferencesRequest struct {
	Theme  *string `json:"theme"`
	Layout *string `json:"layout"`
}
