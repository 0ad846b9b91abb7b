package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leaderboard/{lobby}/{window}", handler.GetPublishedLeaderboard)
	mux.HandleFunc("GET /v1/leaderboard/{lobby}/{window}/full", handler.GetFullLeaderboard)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/me/account", RequireAuth(verifier, http.HandlerFunc(handler.GetMyAccount)))
	mux.Handle("GET /v1/me/premium", RequireAuth(verifier, http.HandlerFunc(handler.GetMyPremiumStatus)))
	mux.Handle("POST /v1/me/premium/redeem", RequireAuth(verifier, http.HandlerFunc(handler.RedeemPremium)))
	mux.Handle("POST /v1/me/purchase-requests", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPurchaseRequest)))
	mux.Handle("GET /v1/me/purchase-requests", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPurchaseRequests)))
	mux.Handle("GET /v1/me/profile/edit-status", RequireAuth(verifier, http.HandlerFunc(handler.GetMyProfileEditStatus)))
	mux.Handle("PUT /v1/me/profile", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMyProfile)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/admin/ingest", RequireAdmin(verifier, http.HandlerFunc(handler.IngestBatch)))
	mux.Handle("POST /v1/admin/ingest/image", RequireAdmin(verifier, http.HandlerFunc(handler.IngestFromImage)))
	mux.Handle("POST /v1/admin/rows", RequireAdmin(verifier, http.HandlerFunc(handler.AddRow)))
	mux.Handle("POST /v1/admin/batches/{batchID}/revert", RequireAdmin(verifier, http.HandlerFunc(handler.RevertBatch)))
	mux.Handle("GET /v1/admin/batches", RequireAdmin(verifier, http.HandlerFunc(handler.ListBatches)))
	mux.Handle("GET /v1/admin/purchase-requests", RequireAdmin(verifier, http.HandlerFunc(handler.ListPurchaseRequests)))
	mux.Handle("POST /v1/admin/purchase-requests/{orderID}/approve", RequireAdmin(verifier, http.HandlerFunc(handler.ApprovePurchaseRequest)))
	mux.Handle("POST /v1/admin/purchase-requests/{orderID}/reject", RequireAdmin(verifier, http.HandlerFunc(handler.RejectPurchaseRequest)))
	mux.Handle("GET /v1/admin/export/partition/{lobby}/{window}", RequireAdmin(verifier, http.HandlerFunc(handler.ExportPartition)))
	mux.Handle("GET /v1/admin/export/purchase-requests", RequireAdmin(verifier, http.HandlerFunc(handler.ExportPurchaseRequests)))
	mux.Handle("GET /v1/admin/export/backup", RequireAdmin(verifier, http.HandlerFunc(handler.ExportBackup)))
}
