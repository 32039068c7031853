// Package metrics 提供 Prometheus 指标采集功能
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "slidegen"
)

var (
	// HTTP 请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// 业务指标 - 整条流水线
	DeckGenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deck",
			Name:      "generation_total",
			Help:      "Total number of deck generation runs",
		},
		[]string{"status"},
	)

	DeckGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "deck",
			Name:      "generation_duration_seconds",
			Help:      "Deck generation duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"stage"},
	)

	DeckSlideCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "deck",
			Name:      "slide_count",
			Help:      "Number of slides per generated deck",
			Buckets:   []float64{1, 2, 3, 5, 8, 10, 15, 20, 30},
		},
	)

	// 结构修复：格式化阶段产物不是 meta+slides 形态时触发
	DeckHealingTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deck",
			Name:      "healing_total",
			Help:      "Total number of decks recovered via structural healing",
		},
	)

	// 编辑审计指标
	QATicketsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "qa",
			Name:      "tickets_total",
			Help:      "Total number of editorial QA tickets by issue code",
		},
		[]string{"issue_code"},
	)

	// 配图指标
	ImageGenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "image",
			Name:      "generation_total",
			Help:      "Total number of slide image generations",
		},
		[]string{"backend", "status"},
	)

	ImageGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "image",
			Name:      "generation_duration_seconds",
			Help:      "Slide image generation duration in seconds",
			Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"backend"},
	)

	// 渲染指标
	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "PPTX render duration in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// LLM 调用指标
	LLMCallTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_total",
			Help:      "Total number of LLM calls",
		},
		[]string{"workflow", "provider", "model", "status"},
	)

	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "LLM call duration in seconds",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"workflow", "provider", "model"},
	)

	LLMTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_used_total",
			Help:      "Total number of LLM tokens used",
		},
		[]string{"workflow", "provider", "model", "kind"},
	)

	// 任务队列指标
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "total",
			Help:      "Total number of deck generation jobs by final status",
		},
		[]string{"status"},
	)

	JobQueueRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "retries_total",
			Help:      "Total number of job retries",
		},
	)
)
