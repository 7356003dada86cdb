package transport

// TaskCreateRequest carries the fields accepted when creating a task.
type TaskCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	Category    string   `json:"category"`
	DueDate     string   `json:"dueDate"`
	Tags        []string `json:"tags"`
}

// TaskUpdateRequest carries a partial update; absent fields stay untouched.
type TaskUpdateRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	Priority    *string   `json:"priority"`
	Category    *string   `json:"category"`
	DueDate     *string   `json:"dueDate"`
	Tags        *[]string `json:"tags"`
}

// DescriptionRequest asks for an AI-generated task description.
type DescriptionRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// CategorizeRequest asks for an AI-assigned category.
type CategorizeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ProfileUpdateRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

type LoginRequest struct {
	UserID string `json:"userId"`
	TTL    int    `json:"ttlSeconds"`
}

type RefreshRequest struct {
	SessionID string `json:"sessionId"`
	TTL       int    `json:"ttlSeconds"`
}
