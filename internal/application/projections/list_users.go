package projections

import (
	"context"

	accountStore "studio/internal/adapters/storage/account"
	"studio/internal/application/listutil"
	"studio/internal/domain/account"
)

// ListUsersQuery carries query parameters.
type ListUsersQuery struct {
	Requester account.Account
	Role      account.Role // empty for every role
	Search    string       // matched against email and name
	listutil.PageParams
}

// ListUsersResult carries the query result.
type ListUsersResult struct {
	Users []account.Account
	Page  listutil.PageInfo
}

// ListUsersDeps holds dependencies for ListUsers.
type ListUsersDeps struct {
	AccountStore AccountStore
}

// QueryListUsers lists users ordered by email.
// PRE: Requester holds manage_users
// POST: Returns one page of matching users
func QueryListUsers(ctx context.Context, query ListUsersQuery, deps ListUsersDeps) (ListUsersResult, error) {
	if err := account.Authorize(query.Requester, account.PermManageUsers); err != nil {
		return ListUsersResult{}, err
	}

	users, err := deps.AccountStore.List(ctx, accountStore.ListFilter{Role: query.Role})
	if err != nil {
		return ListUsersResult{}, err
	}

	matched := make([]account.Account, 0, len(users))
	for _, u := range users {
		if listutil.MatchesSearch(query.Search, u.Email, u.Name) {
			matched = append(matched, u)
		}
	}

	page, info := listutil.Paginate(matched, query.PageParams)
	return ListUsersResult{Users: page, Page: info}, nil
}
