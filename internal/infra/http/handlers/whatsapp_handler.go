package handlers

import (
	"net/http"
	"strconv"
)

type QRSource interface {
	QRCodePNG() ([]byte, error)
}

type WhatsAppHandler struct {
	QR QRSource
}

func NewWhatsAppHandler(qr QRSource) *WhatsAppHandler {
	return &WhatsAppHandler{QR: qr}
}

// QRCode serve o QR de pareamento pendente. 404 quando já está pareado.
func (h *WhatsAppHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	if h.QR == nil {
		writeError(w, http.StatusNotFound, "Transporte atual não usa QR code")
		return
	}

	png, err := h.QR.QRCodePNG()
	if err != nil {
		writeError(w, http.StatusNotFound, "Nenhum QR code pendente")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
