package service

import (
	"net/http"

	"connectrpc.com/connect"
)

const (
	// GiftServiceName is the fully-qualified name of the gift service.
	GiftServiceName = "giftlog.v1.GiftService"
	// AuthServiceName is the fully-qualified name of the auth service.
	AuthServiceName = "giftlog.v1.AuthService"
)

// Procedure paths, as clients address them.
const (
	ListGiftsProcedure      = "/" + GiftServiceName + "/ListGifts"
	GetGiftProcedure        = "/" + GiftServiceName + "/GetGift"
	CreateGiftProcedure     = "/" + GiftServiceName + "/CreateGift"
	UpdateGiftProcedure     = "/" + GiftServiceName + "/UpdateGift"
	ListGiversProcedure     = "/" + GiftServiceName + "/ListGivers"
	CreateGiverProcedure    = "/" + GiftServiceName + "/CreateGiver"
	ListCategoriesProcedure = "/" + GiftServiceName + "/ListCategories"
	CreateCategoryProcedure = "/" + GiftServiceName + "/CreateCategory"

	RegisterProcedure       = "/" + AuthServiceName + "/Register"
	LoginProcedure          = "/" + AuthServiceName + "/Login"
	LogoutProcedure         = "/" + AuthServiceName + "/Logout"
	GetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
)

func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
}

// NewGiftServiceHandler builds an HTTP handler serving svc. It returns the
// path prefix to mount the handler on.
func NewGiftServiceHandler(svc *GiftService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	mux := http.NewServeMux()
	mux.Handle(ListGiftsProcedure, connect.NewUnaryHandler(ListGiftsProcedure, svc.ListGifts, opts...))
	mux.Handle(GetGiftProcedure, connect.NewUnaryHandler(GetGiftProcedure, svc.GetGift, opts...))
	mux.Handle(CreateGiftProcedure, connect.NewUnaryHandler(CreateGiftProcedure, svc.CreateGift, opts...))
	mux.Handle(UpdateGiftProcedure, connect.NewUnaryHandler(UpdateGiftProcedure, svc.UpdateGift, opts...))
	mux.Handle(ListGiversProcedure, connect.NewUnaryHandler(ListGiversProcedure, svc.ListGivers, opts...))
	mux.Handle(CreateGiverProcedure, connect.NewUnaryHandler(CreateGiverProcedure, svc.CreateGiver, opts...))
	mux.Handle(ListCategoriesProcedure, connect.NewUnaryHandler(ListCategoriesProcedure, svc.ListCategories, opts...))
	mux.Handle(CreateCategoryProcedure, connect.NewUnaryHandler(CreateCategoryProcedure, svc.CreateCategory, opts...))
	return "/" + GiftServiceName + "/", mux
}

// NewAuthServiceHandler builds an HTTP handler serving svc.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	mux := http.NewServeMux()
	mux.Handle(RegisterProcedure, connect.NewUnaryHandler(RegisterProcedure, svc.Register, opts...))
	mux.Handle(LoginProcedure, connect.NewUnaryHandler(LoginProcedure, svc.Login, opts...))
	mux.Handle(LogoutProcedure, connect.NewUnaryHandler(LogoutProcedure, svc.Logout, opts...))
	mux.Handle(GetCurrentUserProcedure, connect.NewUnaryHandler(GetCurrentUserProcedure, svc.GetCurrentUser, opts...))
	return "/" + AuthServiceName + "/", mux
}
