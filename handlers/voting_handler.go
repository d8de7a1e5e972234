package handlers

import (
	"log"
	"net/http"

	"election-voting-backend/apperrors"
	"election-voting-backend/service"

	"github.com/gin-gonic/gin"
)

// Generic message for unclassified failures. Internal error detail is
// logged server-side and never sent to the client.
const msgInternalError = "Ein Fehler ist aufgetreten. Bitte versuchen Sie es später erneut."

// Generic message for request bodies that cannot be bound at all.
const msgBadRequest = "Ungültige Anfrage"

// VotingHandler maps use-case outcomes to HTTP responses.
type VotingHandler struct {
	svc service.VotingService
}

// NewVotingHandler creates the handler with its service dependency.
func NewVotingHandler(svc service.VotingService) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// RegisterInput is the expected body for POST /register.
type RegisterInput struct {
	Email string `json:"email"`
}

// VoteInput is the expected body for POST /vote.
type VoteInput struct {
	Token       string `json:"token"`
	CandidateID uint   `json:"candidateId"`
}

// Register handles POST /register.
func (h *VotingHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.MsgInvalidEmail})
		return
	}

	result, err := h.svc.RegisterVoter(c.Request.Context(), input.Email)
	if err != nil {
		h.writeError(c, "registration", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           result.Message,
		"alreadyRegistered": result.AlreadyRegistered,
	})
}

// Vote handles POST /vote.
func (h *VotingHandler) Vote(c *gin.Context) {
	var input VoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		// Malformed JSON or wrong field types; missing token and missing
		// candidate get their specific messages from the service instead.
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}

	result, err := h.svc.CastVote(c.Request.Context(), input.Token, input.CandidateID)
	if err != nil {
		h.writeError(c, "voting", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": result.Message})
}

// Candidates handles GET /candidates.
func (h *VotingHandler) Candidates(c *gin.Context) {
	candidates, err := h.svc.ListCandidates(c.Request.Context())
	if err != nil {
		h.writeError(c, "candidates", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// Results handles GET /results.
func (h *VotingHandler) Results(c *gin.Context) {
	results, err := h.svc.Results(c.Request.Context())
	if err != nil {
		h.writeError(c, "results", err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// writeError maps typed errors to their status code with the message
// passed through verbatim; anything else becomes an opaque 500.
func (h *VotingHandler) writeError(c *gin.Context, op string, err error) {
	status := apperrors.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s error: %v", op, err)
		c.JSON(status, gin.H{"error": msgInternalError})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
