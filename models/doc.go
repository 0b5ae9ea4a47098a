// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

JSON field names are camelCase to match the web client.

# Request Types

  - RegisterRequest: name, email, password
  - LoginRequest: email, password
  - CreateElectionRequest: title, description, category, department, faculty,
    isOpen, candidates
  - UpdateElectionRequest: same fields, all optional; candidates replaces the roster
  - CandidateInput: id (keep an existing candidate), name, position, photo
  - SubmitVoteRequest: electionId, candidateId

# Response Types

  - AuthResponse: token, user
  - SubmitVoteResponse: success, message, voteId
  - VoteStatusResponse: electionId, hasVoted
  - DeleteElectionResponse: success, message
  - ErrorResponse: error, message, code

# Domain Types

  - Voter: registered identity (the password hash is not part of it)
  - Election: contest with an open/closed gate and an ordered roster
  - Candidate: roster entry with its vote counter
  - VoteRecord: proof that a voter took part in an election
  - Tally, TallyEntry: ranked, percentage annotated results
  - TallyAudit: counter total vs vote record count
  - DirectoryStats: admin dashboard totals

# Errors

Sentinel errors shared by the ledger, directory and handlers:

	ErrUnauthorized, ErrForbidden, ErrNotFound, ErrAlreadyVoted,
	ErrElectionClosed, ErrValidation, ErrConflict

Wrap them with fmt.Errorf("%w: detail", ...) and match with errors.Is.
ErrorCode maps an error to the "code" field of ErrorResponse.
*/
package models
