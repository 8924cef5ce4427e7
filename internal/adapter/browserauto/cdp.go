package browserauto

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// cdpConn is a minimal Chrome DevTools Protocol client over the
// websocket debugger endpoint a system-installed browser exposes on
// --remote-debugging-port. It only speaks the three commands this
// variant needs: setCookies, navigate and evaluate.
type cdpConn struct {
	ws     *websocket.Conn
	nextID int
}

func dialCDP(ctx context.Context, debuggerURL string) (*cdpConn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, debuggerURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial devtools websocket: %w", err)
	}
	return &cdpConn{ws: ws}, nil
}

func (c *cdpConn) Close() error { return c.ws.Close() }

type cdpCommand struct {
	ID     int         `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params"`
}

type cdpResult struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *cdpConn) call(method string, params interface{}) (json.RawMessage, error) {
	c.nextID++
	cmd := cdpCommand{ID: c.nextID, Method: method, Params: params}
	if err := c.ws.WriteJSON(cmd); err != nil {
		return nil, fmt.Errorf("write devtools command %s: %w", method, err)
	}
	for {
		var res cdpResult
		if err := c.ws.ReadJSON(&res); err != nil {
			return nil, fmt.Errorf("read devtools response for %s: %w", method, err)
		}
		if res.ID != cmd.ID {
			continue
		}
		if res.Error != nil {
			return nil, fmt.Errorf("devtools command %s failed: %s", method, res.Error.Message)
		}
		return res.Result, nil
	}
}

func (c *cdpConn) navigate(url string) error {
	_, err := c.call("Page.navigate", map[string]string{"url": url})
	return err
}

// evaluate runs expression in the page's main frame and returns the raw
// Runtime.evaluate result, which the caller unmarshals into whatever
// extraction shape the page-scraping script produced.
func (c *cdpConn) evaluate(expression string) (json.RawMessage, error) {
	return c.call("Runtime.evaluate", map[string]interface{}{
		"expression":    expression,
		"returnByValue": true,
	})
}

// setCookies injects the harvested real-profile cookies into the
// session via Network.setCookie, one call per cookie, before the page
// is allowed to render past the overlay check.
func (c *cdpConn) setCookies(cookies []*http.Cookie, domain string) error {
	for _, ck := range cookies {
		_, err := c.call("Network.setCookie", map[string]interface{}{
			"name":   ck.Name,
			"value":  ck.Value,
			"domain": domain,
			"path":   "/",
		})
		if err != nil {
			return fmt.Errorf("set cookie %s: %w", ck.Name, err)
		}
	}
	return nil
}
