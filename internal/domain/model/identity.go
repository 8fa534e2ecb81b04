package model

// リクエスト単位の認証済みユーザー。handlerからusecaseへ明示的に渡す
type Identity struct {
	UserID       int64
	Username     string
	Role         Role
	TokenVersion int
}

// 未ログイン
func Anonymous() Identity {
	return Identity{}
}

func (i Identity) IsAuthenticated() bool {
	return i.UserID > 0
}

func (i Identity) IsCustomer() bool {
	return i.IsAuthenticated() && i.Role == RoleCustomer
}

func (i Identity) IsAdmin() bool {
	return i.IsAuthenticated() && i.Role == RoleAdmin
}

// 操作ごとの権限判定
type Capability struct {
	Name   string
	Allow  func(Identity) bool
	Denied string // 拒否時の通知文
}

var (
	// ログインしていれば良い
	CanSignedIn = Capability{
		Name:   "signed_in",
		Allow:  Identity.IsAuthenticated,
		Denied: "Please log in to access this page.",
	}
	// カート・チェックアウト・注文履歴
	CanShop = Capability{
		Name:   "shop",
		Allow:  Identity.IsCustomer,
		Denied: "Access denied. Customer account required.",
	}
	// 管理画面
	CanAdminister = Capability{
		Name:   "administer",
		Allow:  Identity.IsAdmin,
		Denied: "Access denied. Admin privileges required.",
	}
)
