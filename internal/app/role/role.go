package role

// Role определяет уровень доступа пользователя
type Role int

const (
	Customer Role = iota // 0 - заказчик (родитель)
	Provider             // 1 - исполнитель (аниматор, площадка, квест, фотограф)
	Admin                // 2 - администратор маркетплейса
)

func (r Role) String() string {
	switch r {
	case Customer:
		return "customer"
	case Provider:
		return "provider"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// FromString разбирает название роли из запроса
func FromString(s string) (Role, bool) {
	switch s {
	case "customer", "":
		return Customer, true
	case "provider":
		return Provider, true
	case "admin":
		return Admin, true
	default:
		return Customer, false
	}
}

// Valid проверяет что значение роли известно
func (r Role) Valid() bool {
	return r >= Customer && r <= Admin
}
