// sendlinks 一次性脚本：给所有已注册但尚未投票的选民批量发送投票链接。
// 用法: sendlinks -config config.yaml [-dry-run]
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"election-voting-backend/config"
	"election-voting-backend/database"
	"election-voting-backend/notify"
	"election-voting-backend/repository"
	"election-voting-backend/token"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（可选，环境变量优先）")
	dryRun := flag.Bool("dry-run", false, "只列出收件人，不实际发信")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("无法初始化数据库: %v", err)
	}
	defer database.Close(db)

	tokens, err := token.New(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		log.Fatalf("初始化令牌服务失败: %v", err)
	}

	notifier := notify.NewEmailNotifier(&cfg.Email)
	userRepo := repository.NewUserRepository(db)

	ctx := context.Background()
	voters, err := userRepo.FindPendingVoters(ctx)
	if err != nil {
		log.Fatalf("查询未投票选民失败: %v", err)
	}

	if len(voters) == 0 {
		log.Println("没有需要发送投票链接的选民")
		return
	}

	log.Printf("待发送选民数: %d", len(voters))

	var sent, failed int
	for _, voter := range voters {
		if *dryRun {
			log.Printf("[dry-run] %s", voter.Email)
			continue
		}

		votingToken, err := tokens.Issue(token.Payload{Email: voter.Email, UserID: voter.ID})
		if err != nil {
			log.Printf("签发令牌失败 (%s): %v", voter.Email, err)
			failed++
			continue
		}

		if err := notifier.SendVotingLink(voter.Email, votingToken); err != nil {
			log.Printf("发送失败 (%s): %v", voter.Email, err)
			failed++
			continue
		}

		sent++
		// 限制发信速率，避免触发SMTP服务商限制
		time.Sleep(100 * time.Millisecond)
	}

	log.Printf("发送完成: 成功=%d 失败=%d 总计=%d", sent, failed, len(voters))
}
