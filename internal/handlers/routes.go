package handlers

import "net/http"

// NewMux wires every API route. limiter may be nil to disable buy rate
// limiting.
func NewMux(admin *AdminHandler, lh *LedgerHandler, limiter *RateLimiter) *http.ServeMux {
	auth := admin.RequireSession
	buy := auth(lh.Buy)
	if limiter != nil {
		buy = limiter.Middleware(buy)
	}

	mux := http.NewServeMux()

	if lh.UploadDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads", http.FileServer(http.Dir(lh.UploadDir))))
	}

	mux.HandleFunc("POST /login", admin.Login)
	mux.HandleFunc("POST /logout", admin.Logout)
	mux.HandleFunc("GET /csrf", admin.CSRFToken)
	mux.HandleFunc("GET /owner", admin.Owner)
	mux.HandleFunc("GET /stats", auth(admin.Stats))

	mux.HandleFunc("POST /farmers", auth(lh.Register))
	mux.HandleFunc("GET /farmers/{identity}", lh.Farmer)

	mux.HandleFunc("GET /items", lh.Items)
	mux.HandleFunc("GET /items/{id}", lh.Item)
	mux.HandleFunc("POST /items", auth(lh.List))
	mux.HandleFunc("POST /items/{id}/delist", auth(lh.Delist))
	mux.HandleFunc("POST /items/{id}/image", auth(lh.UploadImage))
	mux.HandleFunc("POST /items/{id}/buy", buy)

	mux.HandleFunc("GET /orders/{buyer}", lh.History)
	mux.HandleFunc("GET /orders/{buyer}/{index}", lh.Order)

	mux.HandleFunc("POST /accounts/{identity}/credit", auth(lh.Credit))
	mux.HandleFunc("GET /balances/{identity}", lh.Balance)
	mux.HandleFunc("GET /events", lh.Events)

	return mux
}
