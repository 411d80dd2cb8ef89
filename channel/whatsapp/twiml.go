package whatsapp

import "encoding/xml"

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// TwiML wraps reply text in the minimal Twilio messaging response document.
// Twilio reads the webhook's response body, so replying is just rendering
// this XML; xml.Marshal handles escaping of the message text.
func TwiML(text string) string {
	out, err := xml.Marshal(twimlResponse{Message: text})
	if err != nil {
		// Only marshal failure mode for a string field is invalid UTF-8.
		return xml.Header + "<Response></Response>"
	}
	return xml.Header + string(out)
}
