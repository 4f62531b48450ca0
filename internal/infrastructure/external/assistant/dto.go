package assistant

// DTOs for the assistant service wire format.

// StatusSuccess is the success indicator value the assistant service uses in
// its envelopes. Anything else is a non-success outcome.
const StatusSuccess = "success"

// ChatResponseDTO is the /chat success envelope.
type ChatResponseDTO struct {
	Reply string `json:"reply"`
}

// SearchResponseDTO is the /api/search envelope.
type SearchResponseDTO struct {
	Status  string   `json:"status"`
	Results []string `json:"results"`
}

// FeedbackRequestDTO is the /feedback JSON body.
type FeedbackRequestDTO struct {
	UserQuery    string `json:"user_query"`
	AIResponse   string `json:"ai_response"`
	UserFeedback string `json:"user_feedback"`
}

// BulletinDTO is one item in the /notifications envelope.
type BulletinDTO struct {
	Date  string `json:"date"`
	Title string `json:"title"`
}

// NotificationsResponseDTO is the /notifications envelope.
type NotificationsResponseDTO struct {
	Status        string        `json:"status"`
	Notifications []BulletinDTO `json:"notifications"`
}
