package users

type RegisterForm struct {
	Email string `json:"email"`
}

func (*RegisterForm) PageName() string { return "user_register" }

type LoginForm struct {
	Email      string `json:"email"`
	RememberMe bool   `json:"remember_me"`
}

func (*LoginForm) PageName() string { return "user_login" }
