package services

import (
	"context"
	"fmt"
	"time"

	"remedify/internal/metrics"
	"remedify/pkg/cloudflare"
	"remedify/pkg/faults"
	"remedify/pkg/jira"
	"remedify/pkg/slack"

	"github.com/sirupsen/logrus"
)

// Executor 单个远端系统的修复执行器
//
// 每个动作恰好路由到一个执行器，执行器要么整体成功要么报错，
// 远端调用之间没有事务性也没有补偿回滚。
type Executor interface {
	Execute(ctx context.Context, req *RemediationRequest) (*RemediationResult, error)
}

type registration struct {
	exec   Executor
	system string
}

// Dispatcher 按动作路由到对应执行器
type Dispatcher struct {
	executors map[ActionType]registration
	logger    *logrus.Logger
}

// NewDispatcher 创建路由器并注册全部执行器
func NewDispatcher(firewall cloudflare.FirewallInterface, tickets jira.TicketerInterface, notifier slack.NotifierInterface, logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = logrus.New()
	}

	fw := &firewallExecutor{firewall: firewall}
	tk := &ticketExecutor{tickets: tickets}
	nt := &notifyExecutor{notifier: notifier}

	return &Dispatcher{
		executors: map[ActionType]registration{
			ActionBlockIP:       {exec: fw, system: "cloudflare"},
			ActionRateLimitIP:   {exec: tk, system: "jira"},
			ActionAddWAFRule:    {exec: tk, system: "jira"},
			ActionBlockEndpoint: {exec: tk, system: "jira"},
			ActionAlertSRE:      {exec: nt, system: "slack"},
		},
		logger: logger,
	}
}

// Supported 判断动作是否在已知集合内
func (d *Dispatcher) Supported(action string) bool {
	_, ok := d.executors[ActionType(action)]
	return ok
}

// Actions 返回全部已注册动作，仅用于诊断输出
func (d *Dispatcher) Actions() []string {
	actions := make([]string, 0, len(d.executors))
	for action := range d.executors {
		actions = append(actions, string(action))
	}
	return actions
}

// Dispatch 执行单个修复动作
//
// 同一 target 重复提交会重复触发远端调用，这里不去重。
func (d *Dispatcher) Dispatch(ctx context.Context, req *RemediationRequest) (*RemediationResult, error) {
	reg, ok := d.executors[ActionType(req.Action)]
	if !ok {
		return nil, faults.New(faults.InvalidRequest, "dispatcher", "unsupported action: %s", req.Action)
	}

	start := time.Now()
	result, err := reg.exec.Execute(ctx, req)
	duration := time.Since(start).Seconds()

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(reg.system, outcome).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(reg.system).Observe(duration)

	if err != nil {
		return nil, err
	}

	d.logger.Debugf("Action %s dispatched to %s in %.3fs", req.Action, reg.system, duration)
	return result, nil
}

// firewallExecutor 直接在边缘防火墙执行封禁
type firewallExecutor struct {
	firewall cloudflare.FirewallInterface
}

func (e *firewallExecutor) Execute(ctx context.Context, req *RemediationRequest) (*RemediationResult, error) {
	rule, err := e.firewall.CreateBlockRule(ctx, req.Target)
	if err != nil {
		return nil, err
	}

	return &RemediationResult{
		Status:           StatusSuccess,
		ActionTaken:      string(ActionBlockIP),
		Target:           req.Target,
		Method:           "cloudflare_firewall",
		CloudflareRuleID: rule.ID,
		Message:          fmt.Sprintf("IP %v blocked successfully", req.Target),
		ExecutedAt:       time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// ticketExecutor 为待审批动作建工单
//
// 这三类动作无论 severity 多高都不自动执行，只开工单等人工批准。
type ticketExecutor struct {
	tickets jira.TicketerInterface
}

func (e *ticketExecutor) Execute(ctx context.Context, req *RemediationRequest) (*RemediationResult, error) {
	issue, err := e.tickets.CreateRemediationTicket(ctx, req.Action, req.Target, req.Severity)
	if err != nil {
		return nil, err
	}

	return &RemediationResult{
		Status:     StatusPendingApproval,
		Action:     req.Action,
		Target:     req.Target,
		JiraTicket: issue.Key,
	}, nil
}

// notifyExecutor 推送告警通知，成功时不返回远端句柄
type notifyExecutor struct {
	notifier slack.NotifierInterface
}

func (e *notifyExecutor) Execute(ctx context.Context, req *RemediationRequest) (*RemediationResult, error) {
	if err := e.notifier.SendSecurityAlert(ctx, req.Payload); err != nil {
		return nil, err
	}

	return &RemediationResult{
		Status:      StatusSuccess,
		ActionTaken: string(ActionAlertSRE),
		Method:      "slack_notification",
		Message:     "SRE team has been alerted",
		ExecutedAt:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}
