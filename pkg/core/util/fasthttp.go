package util

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"
)

type Header struct {
	Key   string
	Value string
}

type Http struct {
	Url      string
	Query    interface{}
	Headers  []Header
	Timeout  time.Duration
	Response *fasthttp.Response
}

func NewHttp(url string, query interface{}, headers ...Header) *Http {
	return &Http{
		Url:     url,
		Query:   query,
		Headers: headers,
	}
}

// NewHttpWithTimeout 创建带整体超时的请求，超时后请求被放弃
func NewHttpWithTimeout(url string, query interface{}, timeout time.Duration, headers ...Header) *Http {
	return &Http{
		Url:     url,
		Query:   query,
		Headers: headers,
		Timeout: timeout,
	}
}

func (h *Http) Get() error {
	request := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(request)
	response := fasthttp.AcquireResponse()

	request.Header.SetMethod("GET")

	if h.Query != nil {
		queryString := ""
		switch q := h.Query.(type) {
		case string:
			queryString = q
		case map[string]string:
			for key, value := range q {
				if queryString != "" {
					queryString += "&"
				}
				queryString += key + "=" + url.QueryEscape(value)
			}
		default:
			// 如果是其他类型，尝试JSON序列化
			jsonBytes, err := json.Marshal(h.Query)
			if err != nil {
				return fmt.Errorf("failed to marshal query: %v", err)
			}
			var queryMap map[string]interface{}
			if err := json.Unmarshal(jsonBytes, &queryMap); err != nil {
				return fmt.Errorf("failed to unmarshal query: %v", err)
			}
			for key, value := range queryMap {
				if queryString != "" {
					queryString += "&"
				}
				queryString += key + "=" + url.QueryEscape(fmt.Sprint(value))
			}
		}

		if queryString != "" {
			if strings.Contains(h.Url, "?") {
				h.Url += "&" + queryString
			} else {
				h.Url += "?" + queryString
			}
		}
	}

	request.SetRequestURI(h.Url)

	for _, header := range h.Headers {
		request.Header.Set(header.Key, header.Value)
	}

	if err := h.do(request, response); err != nil {
		fasthttp.ReleaseResponse(response)
		return err
	}

	if response.StatusCode() != 200 {
		code := response.StatusCode()
		fasthttp.ReleaseResponse(response)
		return fmt.Errorf("GET request failed, status code: %d", code)
	}

	h.Response = response
	return nil
}

func (h *Http) Post() error {
	request := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(request)
	response := fasthttp.AcquireResponse()

	request.Header.SetMethod("POST")
	request.SetRequestURI(h.Url)
	request.Header.SetContentType("application/json")

	if h.Query != nil {
		jsonBytes, err := json.Marshal(h.Query)
		if err != nil {
			return err
		}
		request.SetBody(jsonBytes)
	}

	for _, header := range h.Headers {
		request.Header.Set(header.Key, header.Value)
	}

	if err := h.do(request, response); err != nil {
		fasthttp.ReleaseResponse(response)
		return err
	}

	if response.StatusCode() != 200 {
		err := fmt.Errorf("POST request failed, status code: %d，body: %s", response.StatusCode(), string(response.Body()))
		fasthttp.ReleaseResponse(response)
		return err
	}

	h.Response = response
	return nil
}

func (h *Http) do(request *fasthttp.Request, response *fasthttp.Response) error {
	if h.Timeout > 0 {
		return fasthttp.DoTimeout(request, response, h.Timeout)
	}
	return fasthttp.Do(request, response)
}

func (h *Http) Unmarshal(v interface{}) error {
	body := h.Response.Body()
	if body == nil || len(body) == 0 {
		return errors.New("response body is empty")
	}
	err := json.Unmarshal(body, v)
	h.Close()
	return err
}

func (h *Http) Result() (*gjson.Result, error) {
	body := h.Response.Body()
	if body == nil || len(body) == 0 {
		return nil, errors.New("response body is empty")
	}
	// 响应对象归还池后缓冲会被复用，解析前先拷贝
	result := gjson.ParseBytes(append([]byte(nil), body...))
	h.Close()
	return &result, nil
}

// Close 释放响应对象，可重复调用；请求失败时 Response 为空，此时为空操作
func (h *Http) Close() {
	if h.Response == nil {
		return
	}
	fasthttp.ReleaseResponse(h.Response)
	h.Response = nil
}

func HttpPost(uri string, v interface{}, headers ...Header) (*gjson.Result, error) {
	h := NewHttp(uri, v, headers...)
	err := h.Post()
	if err != nil {
		return nil, err
	}
	return h.Result()
}

func HttpGet(uri string, v interface{}, headers ...Header) (*gjson.Result, error) {
	h := NewHttp(uri, v, headers...)
	err := h.Get()
	if err != nil {
		return nil, err
	}
	return h.Result()
}

func HttpGetWithResult(uri string, v, result interface{}, headers ...Header) error {
	h := NewHttp(uri, v, headers...)
	err := h.Get()
	if err != nil {
		return err
	}
	return h.Unmarshal(result)
}
