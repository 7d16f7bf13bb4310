package transport

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdateRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assigned_to"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// TaskUpdateRequest uses pointers so an omitted field and an explicitly
// supplied one are distinguishable. An empty assigned_to or date string
// clears the field; an empty title or description fails validation.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assigned_to"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

type TaskStatusRequest struct {
	Status string `json:"status"`
}
