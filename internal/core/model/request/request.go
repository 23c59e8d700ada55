package request

type SignUpRequest struct {
	Username string `json:"username,omitempty" validate:"required,min=2,max=50"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=100"`
}

type LoginRequest struct {
	Username string `json:"username,omitempty" validate:"required,min=2,max=50"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=100"`
}

// CreateTodoRequest binds the non-file part of the multipart create form.
type CreateTodoRequest struct {
	Title       string `form:"title" json:"title,omitempty" validate:"required,min=1,max=255"`
	Description string `form:"description" json:"description,omitempty" validate:"max=1000"`
	Time        string `form:"time" json:"time,omitempty" validate:"max=50"`
	IsPro       bool   `form:"is_pro" json:"is_pro,omitempty"`
}

// UpdateTodoRequest uses pointers so an absent field can be told apart
// from an empty one; absent fields retain their stored value.
type UpdateTodoRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Time        *string `json:"time,omitempty" validate:"omitempty,max=50"`
}

type PaymentIntentRequest struct {
	Amount   int64  `json:"amount,omitempty" validate:"required,gt=0"`
	Currency string `json:"currency,omitempty" validate:"required,len=3"`
}
