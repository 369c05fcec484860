package v1

import (
	"time"

	"github.com/sagarsuperuser/useradmin/store"
)

type UserResp struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone,omitempty"`
	Role      store.Role       `json:"role"`
	Status    store.UserStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func newUserResp(u *store.UserInfo) *UserResp {
	if u == nil {
		return nil
	}
	resp := &UserResp{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Phone != nil {
		resp.Phone = *u.Phone
	}

	return resp
}

func newUserListResp(list []*store.UserInfo) []*UserResp {
	resp := make([]*UserResp, 0, len(list))
	for _, u := range list {
		resp = append(resp, newUserResp(u))
	}
	return resp
}
