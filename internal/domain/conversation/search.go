package conversation

// SearchStatus is the search-augmentation state machine. It runs orthogonally
// to the chat-turn machine: both may be mid-flight at the same time and share
// nothing besides the current input text.
type SearchStatus string

const (
	// SearchIdle means no search has been issued or the last one was consumed.
	SearchIdle SearchStatus = "idle"

	// SearchLoading means a search call is in flight.
	SearchLoading SearchStatus = "loading"

	// SearchSuccess means the last search settled with a result list.
	SearchSuccess SearchStatus = "success"

	// SearchFailed means the last search settled with a failure entry.
	SearchFailed SearchStatus = "failed"
)

// SearchFailureEntry is the single synthetic entry the result list carries
// after a non-success search. The warning prefix is part of the contract the
// display layer keys on.
const SearchFailureEntry = "⚠️ Search failed. Try again."

// LinkPlaceholder replaces a result line whose embedded URL fails parsing.
// Lines are replaced, never dropped, so list length and order are stable.
const LinkPlaceholder = "#"

// SearchState is a snapshot of the search machine for consumers. Transient:
// never persisted.
type SearchState struct {
	Query   string       `json:"query"`
	Status  SearchStatus `json:"status"`
	Results []string     `json:"results,omitempty"`
	Reason  string       `json:"reason,omitempty"`
}
