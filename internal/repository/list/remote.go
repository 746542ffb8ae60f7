package list

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"gurkerl-cli/internal/domain"
	"gurkerl-cli/internal/gateway"
)

const (
	componentPath = "/api/v1/components/shopping-lists"
	detailPath    = "/api/v2/shopping-lists/id/"
	listsPath     = "/api/v1/shopping-lists"
	createSource  = "Shopping Lists"
)

type remoteRepo struct {
	exec gateway.Executor
}

func NewRemote(exec gateway.Executor) Repository {
	return &remoteRepo{exec: exec}
}

func (r *remoteRepo) IDs(ctx context.Context) ([]int64, error) {
	resp, err := r.exec.Execute(ctx, gateway.Request{Method: http.MethodGet, Path: componentPath})
	if err != nil {
		return nil, err
	}
	var payload struct {
		ShoppingLists []int64 `json:"shoppingLists"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.ShoppingLists, nil
}

func (r *remoteRepo) Get(ctx context.Context, id int64) (*domain.ShoppingList, error) {
	resp, err := r.exec.Execute(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   detailPath + strconv.FormatInt(id, 10),
	})
	if err != nil {
		return nil, err
	}
	list := domain.ShoppingList{Type: "GENERAL"}
	if err := resp.Decode(&list); err != nil {
		return nil, err
	}
	if list.ID == 0 {
		return nil, &domain.InvalidResponseError{Status: resp.Status, Body: string(resp.Body), Reason: "shopping list without id"}
	}
	if list.Products == nil {
		list.Products = []domain.ShoppingListProduct{}
	}
	return &list, nil
}

func (r *remoteRepo) Create(ctx context.Context, name string) (int64, error) {
	resp, err := r.exec.Execute(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   listsPath,
		Query:  url.Values{"source": {createSource}},
		Body:   map[string]string{"name": name},
	})
	if err != nil {
		return 0, err
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := resp.Decode(&created); err != nil {
		return 0, err
	}
	if created.ID == 0 {
		return 0, &domain.InvalidResponseError{Status: resp.Status, Body: string(resp.Body), Reason: "created list has no id"}
	}
	return created.ID, nil
}

func (r *remoteRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.exec.Execute(ctx, gateway.Request{
		Method: http.MethodDelete,
		Path:   listsPath + "/" + strconv.FormatInt(id, 10),
	})
	return err
}
