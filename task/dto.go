package task

// CreateRequest is the payload for creating a task. Status is not accepted
// on create; new tasks always start as TO_BE_DONE.
type CreateRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=4096"`
	Priority    string `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH"`
}

// UpdateRequest is the payload for a partial task update. Empty fields are
// left untouched.
type UpdateRequest struct {
	Title       string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=4096"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status      string  `json:"status" validate:"omitempty,oneof=TO_BE_DONE IN_PROGRESS DONE"`
}

// Response is the wire shape of a task.
type Response struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	UserID      string `json:"userId"`
}

func toResponse(t *Task) Response {
	return Response{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		UserID:      t.UserID.String(),
	}
}

func toResponses(tasks []Task) []Response {
	out := make([]Response, 0, len(tasks))
	for i := range tasks {
		out = append(out, toResponse(&tasks[i]))
	}
	return out
}
