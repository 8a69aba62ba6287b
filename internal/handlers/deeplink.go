package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// appendParams adds every key of params to the query of rawURL, keeping any
// query the URL already carries. Keys come out sorted.
func appendParams(rawURL string, params map[string]interface{}) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	q := u.Query()
	for key, value := range params {
		q.Add(key, paramString(value))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// fallbackURL carries the deep-link payload through the store page as a
// base64 JSON blob plus the link id.
func fallbackURL(rawURL, linkID string, data map[string]interface{}) (string, error) {
	encoded, err := encodeDeepLinkData(data)
	if err != nil {
		return "", err
	}
	return appendParams(rawURL, map[string]interface{}{
		"dl_data": encoded,
		"link_id": linkID,
	})
}

func encodeDeepLinkData(data map[string]interface{}) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode deep link data: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func paramString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}
