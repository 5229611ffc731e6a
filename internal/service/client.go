package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// GiftServiceClient calls a GiftService over Connect.
type GiftServiceClient struct {
	listGifts      *connect.Client[ListGiftsRequest, ListGiftsResponse]
	getGift        *connect.Client[GetGiftRequest, GetGiftResponse]
	createGift     *connect.Client[CreateGiftRequest, CreateGiftResponse]
	updateGift     *connect.Client[UpdateGiftRequest, UpdateGiftResponse]
	listGivers     *connect.Client[ListGiversRequest, ListGiversResponse]
	createGiver    *connect.Client[CreateGiverRequest, CreateGiverResponse]
	listCategories *connect.Client[ListCategoriesRequest, ListCategoriesResponse]
	createCategory *connect.Client[CreateCategoryRequest, CreateCategoryResponse]
}

// NewGiftServiceClient returns a client for the server at baseURL.
func NewGiftServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GiftServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &GiftServiceClient{
		listGifts:      connect.NewClient[ListGiftsRequest, ListGiftsResponse](httpClient, baseURL+ListGiftsProcedure, opts...),
		getGift:        connect.NewClient[GetGiftRequest, GetGiftResponse](httpClient, baseURL+GetGiftProcedure, opts...),
		createGift:     connect.NewClient[CreateGiftRequest, CreateGiftResponse](httpClient, baseURL+CreateGiftProcedure, opts...),
		updateGift:     connect.NewClient[UpdateGiftRequest, UpdateGiftResponse](httpClient, baseURL+UpdateGiftProcedure, opts...),
		listGivers:     connect.NewClient[ListGiversRequest, ListGiversResponse](httpClient, baseURL+ListGiversProcedure, opts...),
		createGiver:    connect.NewClient[CreateGiverRequest, CreateGiverResponse](httpClient, baseURL+CreateGiverProcedure, opts...),
		listCategories: connect.NewClient[ListCategoriesRequest, ListCategoriesResponse](httpClient, baseURL+ListCategoriesProcedure, opts...),
		createCategory: connect.NewClient[CreateCategoryRequest, CreateCategoryResponse](httpClient, baseURL+CreateCategoryProcedure, opts...),
	}
}

func (c *GiftServiceClient) ListGifts(ctx context.Context, req *connect.Request[ListGiftsRequest]) (*connect.Response[ListGiftsResponse], error) {
	return c.listGifts.CallUnary(ctx, req)
}

func (c *GiftServiceClient) GetGift(ctx context.Context, req *connect.Request[GetGiftRequest]) (*connect.Response[GetGiftResponse], error) {
	return c.getGift.CallUnary(ctx, req)
}

func (c *GiftServiceClient) CreateGift(ctx context.Context, req *connect.Request[CreateGiftRequest]) (*connect.Response[CreateGiftResponse], error) {
	return c.createGift.CallUnary(ctx, req)
}

func (c *GiftServiceClient) UpdateGift(ctx context.Context, req *connect.Request[UpdateGiftRequest]) (*connect.Response[UpdateGiftResponse], error) {
	return c.updateGift.CallUnary(ctx, req)
}

func (c *GiftServiceClient) ListGivers(ctx context.Context, req *connect.Request[ListGiversRequest]) (*connect.Response[ListGiversResponse], error) {
	return c.listGivers.CallUnary(ctx, req)
}

func (c *GiftServiceClient) CreateGiver(ctx context.Context, req *connect.Request[CreateGiverRequest]) (*connect.Response[CreateGiverResponse], error) {
	return c.createGiver.CallUnary(ctx, req)
}

func (c *GiftServiceClient) ListCategories(ctx context.Context, req *connect.Request[ListCategoriesRequest]) (*connect.Response[ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

func (c *GiftServiceClient) CreateCategory(ctx context.Context, req *connect.Request[CreateCategoryRequest]) (*connect.Response[CreateCategoryResponse], error) {
	return c.createCategory.CallUnary(ctx, req)
}

// AuthServiceClient calls an AuthService over Connect.
type AuthServiceClient struct {
	register       *connect.Client[RegisterRequest, RegisterResponse]
	login          *connect.Client[LoginRequest, LoginResponse]
	logout         *connect.Client[LogoutRequest, LogoutResponse]
	getCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

// NewAuthServiceClient returns a client for the server at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &AuthServiceClient{
		register:       connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+RegisterProcedure, opts...),
		login:          connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+LoginProcedure, opts...),
		logout:         connect.NewClient[LogoutRequest, LogoutResponse](httpClient, baseURL+LogoutProcedure, opts...),
		getCurrentUser: connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+GetCurrentUserProcedure, opts...),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Logout(ctx context.Context, req *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}
