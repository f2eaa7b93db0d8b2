// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — упростить формирование структурированных полей лога:
// единообразный вывод ошибок и маскирование адресов почты, которые
// нельзя писать в лог в открытом виде.
package sl

import (
	"log/slog"
	"strings"
)

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Удобно использовать в логировании для единообразного вывода ошибок.
//
// Пример:
//
//	log.Error("failed to fetch user", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Email возвращает slog.Attr с ключом "email" и маскированным адресом:
// от локальной части остаётся только первый символ, домен сохраняется.
// Этого достаточно для диагностики без записи адреса целиком.
func Email(addr string) slog.Attr {
	return slog.Attr{
		Key:   "email",
		Value: slog.StringValue(mask(addr)),
	}
}

func mask(addr string) string {
	at := strings.IndexByte(addr, '@')
	if at <= 0 {
		return "***"
	}
	return addr[:1] + "***" + addr[at:]
}
