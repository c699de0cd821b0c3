// Package httpapi exposes the ledger operation surface over HTTP.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lucky83149028/CarShop/internal/application/handlers"
	"github.com/lucky83149028/CarShop/internal/domain/entities"
)

// CallerHeader carries the opaque caller address. The server trusts the
// declared identity exactly as the ledger's execution environment trusts
// the transaction sender; authorization happens inside the ledger.
const CallerHeader = "X-Caller"

// Server wires the application handlers to a gin router.
type Server struct {
	ledger *handlers.LedgerHandler
	query  *handlers.QueryHandler
}

// NewServer creates a new Server.
func NewServer(ledger *handlers.LedgerHandler, query *handlers.QueryHandler) *Server {
	return &Server{
		ledger: ledger,
		query:  query,
	}
}

// Router builds the route table.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.POST("/cars", s.handleMint())
	r.POST("/cars/:id/sell", s.handleSell())
	r.PUT("/cars/:id/name", s.handleRename())
	r.POST("/cars/:id/approve", s.handleApprove())
	r.POST("/cars/:id/transfers", s.handleTransfer())
	r.POST("/operators", s.handleSetOperator())

	r.GET("/cars", s.handleListCars())
	r.GET("/cars/:id", s.handleGetCar())
	r.GET("/supply", s.handleSupply())
	r.GET("/owners/:owner/cars", s.handleOwnerCars())
	r.GET("/owners/:owner/balance", s.handleBalance())
	r.GET("/names/:name/reserved", s.handleNameReserved())

	return r
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

type mintRequest struct {
	Price uint64 `json:"price"`
}

func (s *Server) handleMint() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req mintRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		id, err := s.ledger.HandleMint(c.Request.Context(), caller(c), req.Price)
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

type sellRequest struct {
	To string `json:"to"`
}

func (s *Server) handleSell() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := carID(c)
		if !ok {
			return
		}
		var req sellRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := s.ledger.HandleSell(c.Request.Context(), caller(c), entities.Identity(req.To), id); err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": id, "owner": req.To})
	}
}

type renameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRename() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := carID(c)
		if !ok {
			return
		}
		var req renameRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := s.ledger.HandleRename(c.Request.Context(), caller(c), id, req.Name); err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": id, "name": req.Name})
	}
}

type approveRequest struct {
	Delegate string `json:"delegate"`
}

func (s *Server) handleApprove() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := carID(c)
		if !ok {
			return
		}
		var req approveRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := s.ledger.HandleApprove(c.Request.Context(), caller(c), entities.Identity(req.Delegate), id); err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": id, "approved": req.Delegate})
	}
}

type transferRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Safe bool   `json:"safe"`
	Data []byte `json:"data,omitempty"`
}

func (s *Server) handleTransfer() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := carID(c)
		if !ok {
			return
		}
		var req transferRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		ctx := c.Request.Context()
		from, to := entities.Identity(req.From), entities.Identity(req.To)
		var err error
		if req.Safe {
			err = s.ledger.HandleSafeTransfer(ctx, caller(c), from, to, id, req.Data)
		} else {
			err = s.ledger.HandleTransfer(ctx, caller(c), from, to, id)
		}
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": id, "owner": req.To})
	}
}

type operatorRequest struct {
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

func (s *Server) handleSetOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req operatorRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := s.ledger.HandleSetOperator(c.Request.Context(), caller(c), entities.Identity(req.Operator), req.Approved); err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"operator": req.Operator, "approved": req.Approved})
	}
}

func (s *Server) handleListCars() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := s.query.HandleList()
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (s *Server) handleGetCar() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := carID(c)
		if !ok {
			return
		}
		view, err := s.query.HandleCar(id)
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func (s *Server) handleSupply() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"total_supply": s.query.HandleSupply()})
	}
}

func (s *Server) handleOwnerCars() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := s.query.HandleListByOwner(entities.Identity(c.Param("owner")))
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (s *Server) handleBalance() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := s.query.HandleBalance(entities.Identity(c.Param("owner")))
		if err != nil {
			c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": count})
	}
}

func (s *Server) handleNameReserved() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		c.JSON(http.StatusOK, gin.H{"name": name, "reserved": s.query.HandleIsNameReserved(name)})
	}
}

func caller(c *gin.Context) entities.Identity {
	return entities.Identity(c.GetHeader(CallerHeader))
}

func carID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid car id"})
		return 0, false
	}
	return id, true
}

func statusFromErr(err error) int {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrNameTaken), errors.Is(err, entities.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, entities.ErrNotOwner),
		errors.Is(err, entities.ErrNotAuthorized),
		errors.Is(err, entities.ErrNotAdministrator):
		return http.StatusForbidden
	case errors.Is(err, entities.ErrZeroIdentity),
		errors.Is(err, entities.ErrSelfApproval),
		errors.Is(err, entities.ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
