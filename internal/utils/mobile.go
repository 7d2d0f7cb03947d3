package utils

import (
	"regexp"

	"velora_back_end/internal/apperror"
)

var alphabetRe = regexp.MustCompile(`[a-zA-Z]`)

// FormatMobileNumber valide un numéro à 11 chiffres et le reformate en
// 0311-9288190 (un tiret après les 4 premiers chiffres).
func FormatMobileNumber(mobileNo string) (string, error) {
	if alphabetRe.MatchString(mobileNo) {
		return "", apperror.BadRequest("Le numéro de mobile ne doit pas contenir de lettres")
	}
	if len(mobileNo) < 4 {
		return "", apperror.BadRequest("Le numéro de mobile doit contenir 11 chiffres")
	}

	formatted := mobileNo[:4] + "-" + mobileNo[4:]
	// 11 chiffres + le tiret inséré = 12 caractères
	if len(formatted) != 12 {
		return "", apperror.BadRequest("Le numéro de mobile doit contenir 11 chiffres")
	}
	return formatted, nil
}
