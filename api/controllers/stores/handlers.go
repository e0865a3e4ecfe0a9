// Package stores exposes store administration, wallets, and the settled
// inventory projection over HTTP.
package stores

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/provisionhq/procurehub-backend/api/middleware"
	"github.com/provisionhq/procurehub-backend/api/responses"
	"github.com/provisionhq/procurehub-backend/api/validators"
	storeinvsvc "github.com/provisionhq/procurehub-backend/internal/storeinv"
	storesvc "github.com/provisionhq/procurehub-backend/internal/stores"
	walletsvc "github.com/provisionhq/procurehub-backend/internal/wallet"
	pkgerrors "github.com/provisionhq/procurehub-backend/pkg/errors"
	"github.com/provisionhq/procurehub-backend/pkg/logger"
	"github.com/provisionhq/procurehub-backend/pkg/pagination"
)

// requireStoreScope admits admins to any store and everyone else only to the
// store on their token. Writes the error response itself when access is
// denied.
func requireStoreScope(w http.ResponseWriter, r *http.Request, logg *logger.Logger, storeID uuid.UUID) bool {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	if actor.StoreID != nil && *actor.StoreID == storeID {
		return true
	}
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "access limited to your own store"))
	return false
}

// Create provisions a new store. Admin only.
func Create(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		var payload CreateStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), storesvc.CreateStoreInput{
			Name:              payload.Name,
			Email:             payload.Email,
			Phone:             payload.Phone,
			RequireDMApproval: payload.RequireDMApproval,
			RequireCMApproval: payload.RequireCMApproval,
			DMUserID:          payload.DMUserID,
			CMUserID:          payload.CMUserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newStoreView(record))
	}
}

// Get returns one store by id.
func Get(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStoreView(record))
	}
}

// List pages through stores.
func List(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStoreViews(rows))
	}
}

// UpdateApprovers rewrites a store's approval-tier configuration. Admin only.
func UpdateApprovers(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UpdateApproversRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateApprovers(r.Context(), id, storesvc.UpdateApproversInput{
			RequireDMApproval: payload.RequireDMApproval,
			RequireCMApproval: payload.RequireCMApproval,
			DMUserID:          payload.DMUserID,
			CMUserID:          payload.CMUserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStoreView(record))
	}
}

// GetWallet returns a store's prepaid wallet. Admins read any store, other
// actors only their own.
func GetWallet(svc walletsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !requireStoreScope(w, r, logg, id) {
			return
		}

		record, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newWalletView(record))
	}
}

// CreditWallet tops up a store's prepaid balance. Admin only.
func CreditWallet(svc walletsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload CreditWalletRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := decimal.NewFromString(payload.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a decimal string").WithDetails(map[string]any{"field": "amount"}))
			return
		}

		record, err := svc.Credit(r.Context(), id, amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newWalletView(record))
	}
}

// ListInventory pages through a store's settled inventory projection.
// Admins read any store, other actors only their own.
func ListInventory(svc storeinvsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !requireStoreScope(w, r, logg, id) {
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), &id, pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newInventoryViews(rows))
	}
}
