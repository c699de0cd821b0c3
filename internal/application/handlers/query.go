package handlers

import (
	"github.com/lucky83149028/CarShop/internal/domain/entities"
	"github.com/lucky83149028/CarShop/internal/domain/services"
)

// QueryHandler serves the read-only ledger queries.
type QueryHandler struct {
	ledger *services.Ledger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(ledger *services.Ledger) *QueryHandler {
	return &QueryHandler{
		ledger: ledger,
	}
}

// CarView is the external representation of one car.
type CarView struct {
	ID       uint64 `json:"id"`
	Owner    string `json:"owner"`
	Price    uint64 `json:"price"`
	Name     string `json:"name,omitempty"`
	Approved string `json:"approved,omitempty"`
}

// CarListResult contains the result of listing cars.
type CarListResult struct {
	Cars  []CarView `json:"cars"`
	Total uint64    `json:"total"`
}

// HandleCar returns one car by id.
func (h *QueryHandler) HandleCar(id uint64) (*CarView, error) {
	owner, err := h.ledger.OwnerOf(id)
	if err != nil {
		return nil, err
	}
	price, err := h.ledger.CarPriceByIndex(id)
	if err != nil {
		return nil, err
	}
	name, err := h.ledger.TokenNameByIndex(id)
	if err != nil {
		return nil, err
	}
	approved, err := h.ledger.GetApproved(id)
	if err != nil {
		return nil, err
	}
	return &CarView{
		ID:       id,
		Owner:    owner.String(),
		Price:    price,
		Name:     name,
		Approved: approved.String(),
	}, nil
}

// HandleList enumerates every minted car in mint order.
func (h *QueryHandler) HandleList() (*CarListResult, error) {
	total := h.ledger.TotalSupply()
	result := &CarListResult{Total: total, Cars: make([]CarView, 0, total)}
	for i := uint64(0); i < total; i++ {
		id, err := h.ledger.TokenByIndex(i)
		if err != nil {
			return nil, err
		}
		view, err := h.HandleCar(id)
		if err != nil {
			return nil, err
		}
		result.Cars = append(result.Cars, *view)
	}
	return result, nil
}

// HandleListByOwner enumerates the cars held by one owner.
func (h *QueryHandler) HandleListByOwner(owner entities.Identity) (*CarListResult, error) {
	count, err := h.ledger.BalanceOf(owner)
	if err != nil {
		return nil, err
	}
	result := &CarListResult{Total: uint64(count), Cars: make([]CarView, 0, count)}
	for i := uint64(0); i < uint64(count); i++ {
		id, err := h.ledger.TokenOfOwnerByIndex(owner, i)
		if err != nil {
			return nil, err
		}
		view, err := h.HandleCar(id)
		if err != nil {
			return nil, err
		}
		result.Cars = append(result.Cars, *view)
	}
	return result, nil
}

// HandleSupply returns the number of cars minted so far.
func (h *QueryHandler) HandleSupply() uint64 {
	return h.ledger.TotalSupply()
}

// HandleBalance returns how many cars an identity holds.
func (h *QueryHandler) HandleBalance(owner entities.Identity) (int, error) {
	return h.ledger.BalanceOf(owner)
}

// HandleIsNameReserved reports whether a name's folded form is in use.
func (h *QueryHandler) HandleIsNameReserved(name string) bool {
	return h.ledger.IsNameReserved(name)
}

// HandleIsApprovedForAll reports whether operator holds a blanket grant from owner.
func (h *QueryHandler) HandleIsApprovedForAll(owner, operator entities.Identity) bool {
	return h.ledger.IsApprovedForAll(owner, operator)
}
