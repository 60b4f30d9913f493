package admin

type ConfigValue struct {
	Value string `json:"value" validate:"required"`
}

type GrantKoTicketsInput struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Count  int    `json:"count" validate:"required,gt=0,lte=100"`
}

type GrantKokiInput struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=200"`
}

type WeeklyFundInput struct {
	WeekStart   string `json:"week_start" validate:"required,datetime=2006-01-02"`
	TotalIncome string `json:"total_income" validate:"required,numeric"`
}
