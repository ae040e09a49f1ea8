package tts

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aladhefafalquran/tts/internal/config"
	"github.com/gorilla/websocket"
)

// XunfeiProvider speaks the iFlytek streaming TTS websocket protocol.
type XunfeiProvider struct {
	AppID     string
	APIKey    string
	APISecret string
	HostURL   string

	Dialer *websocket.Dialer
	now    func() time.Time
}

func NewXunfeiProvider(cfg *config.Config) *XunfeiProvider {
	host := cfg.XunfeiHostURL
	if host == "" {
		host = "wss://tts-api.xfyun.cn/v2/tts"
	}
	return &XunfeiProvider{
		AppID:     cfg.XunfeiAppID,
		APIKey:    cfg.XunfeiAPIKey,
		APISecret: cfg.XunfeiAPISecret,
		HostURL:   host,
		Dialer:    &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
		now:       time.Now,
	}
}

func (x *XunfeiProvider) Name() string { return string(EngineXunfei) }

type xunfeiFrame struct {
	Common struct {
		AppID string `json:"app_id"`
	} `json:"common"`
	Business xunfeiBusiness `json:"business"`
	Data     struct {
		Status int    `json:"status"`
		Text   string `json:"text"`
	} `json:"data"`
}

type xunfeiBusiness struct {
	Aue    string `json:"aue"`
	Sfl    int    `json:"sfl"`
	Vcn    string `json:"vcn"`
	Speed  int    `json:"speed"`
	Volume int    `json:"volume"`
	Pitch  int    `json:"pitch"`
	Bgs    int    `json:"bgs"`
	Tte    string `json:"tte"`
}

type xunfeiResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Sid     string `json:"sid"`
	Data    *struct {
		Audio  string `json:"audio"`
		Status int    `json:"status"`
	} `json:"data"`
}

// xunfeiSpeed maps a rate modifier onto the 0-100 scale where 50 is normal.
func xunfeiSpeed(rate string) int {
	return int(clamp(50+float64(RatePercent(rate))/2, 0, 100))
}

func (x *XunfeiProvider) Synthesize(ctx context.Context, text, outputPath, voiceName string, opts Options) error {
	if x.AppID == "" || x.APIKey == "" || x.APISecret == "" {
		return fmt.Errorf("xunfei: %w", ErrMissingCredentials)
	}
	if voiceName == "" {
		voiceName = "xiaoyan"
	}

	conn, _, err := x.Dialer.DialContext(ctx, x.assembleAuthURL(), nil)
	if err != nil {
		return fmt.Errorf("dialing xunfei: %w", err)
	}
	defer conn.Close()

	// Unblock ReadMessage if the request goes away.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	var frame xunfeiFrame
	frame.Common.AppID = x.AppID
	frame.Business = xunfeiBusiness{
		Aue:    "lame", // mp3
		Sfl:    1,
		Vcn:    voiceName,
		Speed:  xunfeiSpeed(opts.Rate),
		Volume: 50,
		Pitch:  50,
		Tte:    "UTF8",
	}
	frame.Data.Status = 2
	frame.Data.Text = base64.StdEncoding.EncodeToString([]byte(text))

	if err := conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("sending data: %w", err)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer outFile.Close()

	written := 0
	for {
		var resp xunfeiResponse
		if err := conn.ReadJSON(&resp); err != nil {
			return fmt.Errorf("read message: %w", err)
		}
		if resp.Code != 0 {
			return fmt.Errorf("xunfei api error code: %d, message: %s", resp.Code, resp.Message)
		}
		if resp.Data == nil {
			continue
		}
		if resp.Data.Audio != "" {
			decoded, err := base64.StdEncoding.DecodeString(resp.Data.Audio)
			if err != nil {
				return fmt.Errorf("decode audio frame: %w", err)
			}
			if _, err := outFile.Write(decoded); err != nil {
				return fmt.Errorf("write audio: %w", err)
			}
			written += len(decoded)
		}
		// Last frame
		if resp.Data.Status == 2 {
			break
		}
	}

	if written == 0 {
		return fmt.Errorf("xunfei: %w", ErrEmptyAudio)
	}
	return nil
}

func (x *XunfeiProvider) assembleAuthURL() string {
	ul, err := url.Parse(x.HostURL)
	if err != nil {
		return x.HostURL
	}
	date := x.now().UTC().Format(time.RFC1123)
	signString := []string{"host: " + ul.Host, "date: " + date, "GET " + ul.Path + " HTTP/1.1"}
	signature := hmacSHA256Base64(strings.Join(signString, "\n"), x.APISecret)
	authorization := fmt.Sprintf(`hmac username="%s", algorithm="%s", headers="%s", signature="%s"`,
		x.APIKey, "hmac-sha256", "host date request-line", signature)

	v := url.Values{}
	v.Add("host", ul.Host)
	v.Add("date", date)
	v.Add("authorization", base64.StdEncoding.EncodeToString([]byte(authorization)))
	return x.HostURL + "?" + v.Encode()
}

func hmacSHA256Base64(data, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
