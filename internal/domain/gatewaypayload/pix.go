package gatewaypayload

// PixExtractor reads the copy-paste code and QR image from one known location.
// Either value may be empty.
type PixExtractor struct {
	Name    string
	Extract func(b Body) (code, image string)
}

var (
	codeKeys  = []string{"code", "qrCode", "qr_code", "copyPaste"}
	imageKeys = []string{"base64", "image", "qrCodeImage", "qr_code_base64"}
)

func container(locate func(b Body) Body) func(b Body) (string, string) {
	return func(b Body) (string, string) {
		c := locate(b)
		if c == nil {
			return "", ""
		}
		return firstKey(c, codeKeys), firstKey(c, imageKeys)
	}
}

// PixExtractors is the normalization table, in priority order.
var PixExtractors = []PixExtractor{
	{Name: "data.transaction.pixInformation", Extract: container(func(b Body) Body { return path(b, "data", "transaction", "pixInformation") })},
	{Name: "data.pix", Extract: container(func(b Body) Body { return path(b, "data", "pix") })},
	{Name: "pix", Extract: container(func(b Body) Body { return object(b, "pix") })},
	{Name: "legacy flat", Extract: func(b Body) (string, string) { return str(b, "pix_code"), str(b, "qr_code_image") }},
	{Name: "data legacy flat", Extract: func(b Body) (string, string) {
		d := object(b, "data")
		return str(d, "pix_code"), str(d, "qr_code_image")
	}},
	{Name: "data.transaction.pix", Extract: container(func(b Body) Body { return path(b, "data", "transaction", "pix") })},
	{Name: "data.pixInformation", Extract: container(func(b Body) Body { return path(b, "data", "pixInformation") })},
	{Name: "transaction.pixInformation", Extract: container(func(b Body) Body { return path(b, "transaction", "pixInformation") })},
	{Name: "point_of_interaction.transaction_data", Extract: container(func(b Body) Body {
		return path(b, "point_of_interaction", "transaction_data")
	})},
}

// Pix walks the table and keeps the first non-empty code and the first
// non-empty image independently. The names of the matching entries are
// returned for logging.
func Pix(b Body, table []PixExtractor) (code, image, codeFrom, imageFrom string) {
	for _, ex := range table {
		c, i := ex.Extract(b)
		if code == "" && c != "" {
			code, codeFrom = c, ex.Name
		}
		if image == "" && i != "" {
			image, imageFrom = i, ex.Name
		}
		if code != "" && image != "" {
			break
		}
	}
	return code, image, codeFrom, imageFrom
}

func firstKey(b Body, keys []string) string {
	for _, k := range keys {
		if v := str(b, k); v != "" {
			return v
		}
	}
	return ""
}
