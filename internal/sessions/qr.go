package sessions

import (
	"encoding/base64"
	"encoding/json"

	qrcode "github.com/skip2/go-qrcode"
)

// QRSize is the pixel width of generated QR images.
const QRSize = 300

// QRDataURL renders the payload as a PNG data URL suitable for direct use in
// an <img> tag.
func QRDataURL(p Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, QRSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
