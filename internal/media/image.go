package media

// State tracks where an image is in its lifecycle.
type State string

const (
	// StatePending is a selected file whose upload has not returned yet.
	StatePending State = "pending"
	// StateConfirmed is an upload the server acknowledged with an id and
	// a retrievable url.
	StateConfirmed State = "confirmed"
	// StateRemoved is an image the server acknowledged deleting.
	StateRemoved State = "removed"
)

// Image is a server-acknowledged upload. Before the owning product is
// saved the server holds only a temporary, unreferenced copy.
type Image struct {
	ID    string `json:"id"`
	URL   string `json:"image_url"`
	State State  `json:"-"`
}
