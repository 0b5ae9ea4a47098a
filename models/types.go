package models

import "time"

// Role constants
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// DefaultCandidatePhoto is used when a candidate is saved without a photo
const DefaultCandidatePhoto = "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=400"

// Request types

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CandidateInput struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Photo    string `json:"photo,omitempty"`
}

type CreateElectionRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Department  *string          `json:"department,omitempty"`
	Faculty     *string          `json:"faculty,omitempty"`
	IsOpen      *bool            `json:"isOpen,omitempty"`
	Candidates  []CandidateInput `json:"candidates,omitempty"`
}

// Absent fields are left untouched. A present Candidates list replaces the roster.
type UpdateElectionRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Department  *string           `json:"department,omitempty"`
	Faculty     *string           `json:"faculty,omitempty"`
	IsOpen      *bool             `json:"isOpen,omitempty"`
	Candidates  *[]CandidateInput `json:"candidates,omitempty"`
}

type SubmitVoteRequest struct {
	ElectionID  string `json:"electionId"`
	CandidateID string `json:"candidateId"`
}

// Response types

type AuthResponse struct {
	Token string `json:"token"`
	User  Voter  `json:"user"`
}

type SubmitVoteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	VoteID  string `json:"voteId"`
}

type VoteStatusResponse struct {
	ElectionID string `json:"electionId"`
	HasVoted   bool   `json:"hasVoted"`
}

type DeleteElectionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Domain types

type Voter struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Candidate struct {
	ID         string `json:"id"`
	ElectionID string `json:"-"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Photo      string `json:"photo"`
	Votes      int    `json:"votes"`
}

type Election struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Department  *string     `json:"department,omitempty"`
	Faculty     *string     `json:"faculty,omitempty"`
	IsOpen      bool        `json:"isOpen"`
	Candidates  []Candidate `json:"candidates"`
	CreatedAt   time.Time   `json:"createdAt"`
	HasVoted    *bool       `json:"hasVoted,omitempty"` // only set for identified viewers
}

// VoteRecord proves a voter took part in an election. It never names the candidate.
type VoteRecord struct {
	ID         string    `json:"id"`
	VoterID    string    `json:"voterId"`
	ElectionID string    `json:"electionId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Tally types

type TallyEntry struct {
	Candidate  Candidate `json:"candidate"`
	Votes      int       `json:"votes"`
	Percentage float64   `json:"percentage"`
	Rank       int       `json:"rank"` // 1-indexed ranking
}

type Tally struct {
	ElectionID string       `json:"electionId"`
	Title      string       `json:"title"`
	IsOpen     bool         `json:"isOpen"`
	TotalVotes int          `json:"totalVotes"`
	Results    []TallyEntry `json:"results"`
}

type TallyAudit struct {
	ElectionID  string `json:"electionId"`
	TallyTotal  int    `json:"tallyTotal"`
	RecordCount int    `json:"recordCount"`
	Consistent  bool   `json:"consistent"`
}

type DirectoryStats struct {
	Elections     int `json:"elections"`
	OpenElections int `json:"openElections"`
	Voters        int `json:"voters"`
	TotalVotes    int `json:"totalVotes"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
