// Package apperr - uygulama genelinde kullanılan tipli hatalar.
// Yanıt katmanı Kind ayrımına göre HTTP durum kodu ve hata zarfı üretir;
// iş kuralı ihlalleri model katmanından buraya sarılmadan yukarı taşınır.
package apperr

import (
	"errors"

	"gorm.io/gorm"
)

type Kind string

const (
	KindBadRequest        Kind = "BadRequestError"
	KindNotFound          Kind = "NotFoundError"
	KindInsufficientStock Kind = "InsufficientStockError"
	KindValidation        Kind = "ValidationError"
	KindInternal          Kind = "InternalServerError"
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details any // InsufficientStock için yapılandırılmış eksik-stok raporu
}

func (e *Error) Error() string { return e.Message }

func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Status: 400, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Status: 404, Message: msg}
}

func Validation(msg string, details any) *Error {
	return &Error{Kind: KindValidation, Status: 400, Message: msg, Details: details}
}

// InsufficientStock - generic BadRequest'ten ayrı bir tip: istemci
// malzeme bazında eksikleri gösterebilsin diye raporu Details'te taşır.
func InsufficientStock(msg string, report any) *Error {
	return &Error{Kind: KindInsufficientStock, Status: 400, Message: msg, Details: report}
}

func Internal(msg string) *Error {
	return &Error{Kind: KindInternal, Status: 500, Message: msg}
}

// IsUserError - istemci kaynaklı (4xx) hata mı?
func IsUserError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Status >= 400 && e.Status < 500
	}
	return false
}

// From - bilinmeyen hataları InternalServerError'a sarar, orijinal mesajı korur.
// gorm.ErrRecordNotFound burada çevrilmez; sorgu sahibi NotFound'a kendisi karar verir.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("Kayıt bulunamadı")
	}
	return Internal(err.Error())
}
