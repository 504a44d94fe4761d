package foreign

import (
	"io"
	"net/http"
	"strings"
	"time"

	"mscript/internal/object"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// get(url) and get(url, options) where options may carry a headers object.
// The result is an object with code, body and headers members.
func builtinGet() *object.Builtin {
	return &object.Builtin{
		Name: "get",
		Fn: func(args ...object.Object) object.Object {
			url, err := unpackString("get", args, 0)
			if err != nil {
				return err
			}

			req, reqErr := http.NewRequest(http.MethodGet, url, nil)
			if reqErr != nil {
				return errorf("get: %v", reqErr)
			}

			if len(args) > 1 {
				options, err := unpackMap("get", args, 1)
				if err != nil {
					return err
				}
				if headers, ok := options.Get("headers"); ok {
					headerMap, ok := headers.(*object.Map)
					if !ok {
						return typeErrorf("get: headers must be an object, got %s", headers.Type())
					}
					for _, key := range headerMap.Keys {
						if val, ok := headerMap.Get(key); ok {
							req.Header.Set(key, val.Inspect())
						}
					}
				}
			}

			resp, doErr := httpClient.Do(req)
			if doErr != nil {
				return errorf("get: %v", doErr)
			}
			defer resp.Body.Close()

			body, readErr := io.ReadAll(resp.Body)
			if readErr != nil {
				return errorf("get: %v", readErr)
			}

			headers := object.NewMap()
			for name, values := range resp.Header {
				headers.Set(name, &object.String{Value: strings.Join(values, ", ")})
			}

			result := object.NewMap()
			result.Set("code", &object.Number{Value: float64(resp.StatusCode)})
			result.Set("body", &object.String{Value: string(body)})
			result.Set("headers", headers)
			return result
		},
	}
}
