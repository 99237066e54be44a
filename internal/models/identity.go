package models

// IdentityKind различает покупателя и администратора.
type IdentityKind string

const (
	// KindUser обычный пользователь магазина.
	KindUser IdentityKind = "user"
	// KindAdmin администратор, учётная запись из таблицы admins.
	KindAdmin IdentityKind = "admin"
)

// Identity результат аутентификации. Вид определяется один раз при входе
// и дальше передаётся явно через контекст запроса.
type Identity struct {
	Kind  IdentityKind `json:"kind"`
	ID    int64        `json:"id"`
	Email string       `json:"email"`
}

// UserIdentity возвращает Identity покупателя.
func UserIdentity(id int64, email string) Identity {
	return Identity{Kind: KindUser, ID: id, Email: email}
}

// AdminIdentity возвращает Identity администратора.
func AdminIdentity(id int64, email string) Identity {
	return Identity{Kind: KindAdmin, ID: id, Email: email}
}

// IsAdmin сообщает, что запрос выполняется администратором.
func (i Identity) IsAdmin() bool {
	return i.Kind == KindAdmin && i.ID > 0
}

// IsUser сообщает, что запрос выполняется покупателем.
func (i Identity) IsUser() bool {
	return i.Kind == KindUser && i.ID > 0
}
