package registry

import "handlescope/internal/domain"

// defaultPlatforms is the built-in table, in probe order.
var defaultPlatforms = []Platform{
	// Major Social Media
	{Label: "Instagram", URL: "https://www.instagram.com/{username}/"},
	{Label: "Twitter/X", URL: "https://twitter.com/{username}"},
	{Label: "Facebook", URL: "https://www.facebook.com/{username}"},
	{Label: "LinkedIn", URL: "https://www.linkedin.com/in/{username}"},
	{Label: "TikTok", URL: "https://www.tiktok.com/@{username}"},
	{Label: "Snapchat", URL: "https://www.snapchat.com/add/{username}"},
	{Label: "Reddit", URL: "https://www.reddit.com/user/{username}", Kind: domain.ProbeJSONAPI, APIURL: "https://www.reddit.com/user/{username}/about.json"},
	{Label: "Pinterest", URL: "https://www.pinterest.com/{username}", Kind: domain.ProbeRedirect},
	{Label: "Tumblr", URL: "https://{username}.tumblr.com"},
	{Label: "Mastodon", URL: "https://mastodon.social/@{username}", Kind: domain.ProbeJSONAPI, APIURL: "https://mastodon.social/api/v1/accounts/lookup?acct={username}"},
	// Video Platforms
	{Label: "YouTube", URL: "https://www.youtube.com/@{username}"},
	{Label: "Vimeo", URL: "https://vimeo.com/{username}"},
	{Label: "Dailymotion", URL: "https://www.dailymotion.com/{username}"},
	{Label: "Twitch", URL: "https://www.twitch.tv/{username}"},
	{Label: "Rumble", URL: "https://rumble.com/user/{username}"},
	{Label: "BitChute", URL: "https://www.bitchute.com/channel/{username}"},
	// Developer Platforms
	{Label: "GitHub", URL: "https://github.com/{username}", Kind: domain.ProbeJSONAPI, APIURL: "https://api.github.com/users/{username}"},
	{Label: "GitLab", URL: "https://gitlab.com/{username}", Kind: domain.ProbeJSONAPI, APIURL: "https://gitlab.com/api/v4/users?username={username}"},
	{Label: "Bitbucket", URL: "https://bitbucket.org/{username}"},
	{Label: "StackOverflow", URL: "https://stackoverflow.com/users/{username}"},
	{Label: "HackerRank", URL: "https://www.hackerrank.com/{username}"},
	{Label: "LeetCode", URL: "https://leetcode.com/{username}"},
	{Label: "CodePen", URL: "https://codepen.io/{username}"},
	{Label: "Repl.it", URL: "https://replit.com/@{username}"},
	{Label: "Dev.to", URL: "https://dev.to/{username}", Kind: domain.ProbeJSONAPI, APIURL: "https://dev.to/api/users/by_username?url={username}"},
	{Label: "Kaggle", URL: "https://www.kaggle.com/{username}"},
	{Label: "HackerOne", URL: "https://hackerone.com/{username}"},
	{Label: "CodeChef", URL: "https://www.codechef.com/users/{username}"},
	// Gaming Platforms
	{Label: "Steam", URL: "https://steamcommunity.com/id/{username}"},
	{Label: "Xbox", URL: "https://xboxgamertag.com/search/{username}", Kind: domain.ProbeSearchPage},
	{Label: "PlayStation", URL: "https://psnprofiles.com/{username}"},
	{Label: "Discord", URL: "https://discord.com/users/{username}"},
	{Label: "Roblox", URL: "https://www.roblox.com/users/profile?username={username}", Kind: domain.ProbeSearchPage},
	{Label: "Epic Games", URL: "https://www.epicgames.com/site/en-US/profile/{username}", Kind: domain.ProbeRedirect},
	{Label: "Fortnite", URL: "https://fortnitetracker.com/profile/all/{username}"},
	{Label: "Minecraft", URL: "https://namemc.com/profile/{username}"},
	// Professional Networks
	{Label: "AngelList", URL: "https://angel.co/{username}"},
	{Label: "Behance", URL: "https://www.behance.net/{username}"},
	{Label: "Dribbble", URL: "https://dribbble.com/{username}"},
	{Label: "About.me", URL: "https://about.me/{username}"},
	{Label: "Gravatar", URL: "https://gravatar.com/{username}"},
	{Label: "ResearchGate", URL: "https://www.researchgate.net/profile/{username}"},
	{Label: "Academia", URL: "https://{username}.academia.edu/"},
	// Music Platforms
	{Label: "Spotify", URL: "https://open.spotify.com/user/{username}"},
	{Label: "SoundCloud", URL: "https://soundcloud.com/{username}"},
	{Label: "Bandcamp", URL: "https://{username}.bandcamp.com"},
	{Label: "Last.fm", URL: "https://www.last.fm/user/{username}"},
	{Label: "Mixcloud", URL: "https://www.mixcloud.com/{username}"},
	{Label: "Audiomack", URL: "https://audiomack.com/{username}"},
	// Forums and Communities
	{Label: "HackerNews", URL: "https://news.ycombinator.com/user?id={username}", Kind: domain.ProbeJSONAPI, APIURL: "https://hacker-news.firebaseio.com/v0/user/{username}.json"},
	{Label: "ProductHunt", URL: "https://www.producthunt.com/@{username}"},
	{Label: "Keybase", URL: "https://keybase.io/{username}"},
	{Label: "Patreon", URL: "https://www.patreon.com/{username}"},
	{Label: "Ko-fi", URL: "https://ko-fi.com/{username}"},
	{Label: "BuyMeACoffee", URL: "https://www.buymeacoffee.com/{username}"},
	// International Social Media
	{Label: "VK", URL: "https://vk.com/{username}"},
	{Label: "OK.ru", URL: "https://ok.ru/{username}"},
	{Label: "Weibo", URL: "https://weibo.com/{username}"},
	{Label: "QQ", URL: "https://user.qzone.qq.com/{username}"},
	{Label: "Douban", URL: "https://www.douban.com/people/{username}"},
	// Business and E-Commerce
	{Label: "Etsy", URL: "https://www.etsy.com/shop/{username}"},
	{Label: "eBay", URL: "https://www.ebay.com/usr/{username}"},
	{Label: "Fiverr", URL: "https://www.fiverr.com/{username}", Kind: domain.ProbeRedirect},
	{Label: "Upwork", URL: "https://www.upwork.com/freelancers/~{username}"},
	{Label: "Freelancer", URL: "https://www.freelancer.com/u/{username}"},
	{Label: "PeoplePerHour", URL: "https://www.peopleperhour.com/freelancer/{username}"},
	// Blogging Platforms
	{Label: "WordPress", URL: "https://{username}.wordpress.com"},
	{Label: "Blogger", URL: "https://{username}.blogspot.com"},
	{Label: "Medium", URL: "https://medium.com/@{username}"},
	{Label: "Ghost", URL: "https://{username}.ghost.io"},
	{Label: "Substack", URL: "https://{username}.substack.com"},
	// Photography
	{Label: "Flickr", URL: "https://www.flickr.com/people/{username}"},
	{Label: "500px", URL: "https://500px.com/p/{username}"},
	{Label: "Unsplash", URL: "https://unsplash.com/@{username}"},
	{Label: "VSCO", URL: "https://vsco.co/{username}"},
	{Label: "DeviantArt", URL: "https://www.deviantart.com/{username}"},
	{Label: "ArtStation", URL: "https://www.artstation.com/{username}"},
	// Messaging and Chat
	{Label: "Telegram", URL: "https://t.me/{username}"},
	{Label: "Signal", URL: "https://signal.me/#p/{username}"},
	{Label: "Viber", URL: "https://viber.com/{username}"},
	{Label: "Line", URL: "https://line.me/ti/p/~{username}"},
	{Label: "Kik", URL: "https://kik.me/{username}"},
	// Dating and Adult Platforms
	{Label: "OnlyFans", URL: "https://onlyfans.com/{username}"},
	{Label: "Pornhub", URL: "https://www.pornhub.com/users/{username}"},
	{Label: "Chaturbate", URL: "https://chaturbate.com/{username}"},
	{Label: "Fansly", URL: "https://fansly.com/{username}"},
	{Label: "ManyVids", URL: "https://www.manyvids.com/Profile/{username}"},
	{Label: "Clips4Sale", URL: "https://www.clips4sale.com/studio/{username}"},
	{Label: "Tinder", URL: "https://tinder.com/@{username}"},
	{Label: "Bumble", URL: "https://bumble.com/{username}"},
	{Label: "Badoo", URL: "https://badoo.com/{username}"},
	{Label: "Match", URL: "https://www.match.com/profile/{username}"},
	{Label: "OkCupid", URL: "https://www.okcupid.com/profile/{username}"},
	{Label: "Plenty of Fish", URL: "https://www.pof.com/{username}"},
	{Label: "Adult Friend Finder", URL: "https://adultfriendfinder.com/profile/{username}"},
	// Money and Payment
	{Label: "Linktree", URL: "https://linktr.ee/{username}"},
	{Label: "Cash App", URL: "https://cash.app/${username}"},
	{Label: "Venmo", URL: "https://venmo.com/{username}", Kind: domain.ProbeRedirect},
	{Label: "PayPal", URL: "https://www.paypal.me/{username}"},
	{Label: "Bitcoin", URL: "https://www.blockchain.com/btc/address/{username}"},
	// Knowledge and Learning
	{Label: "Quora", URL: "https://www.quora.com/profile/{username}"},
	{Label: "Duolingo", URL: "https://www.duolingo.com/profile/{username}"},
	{Label: "Coursera", URL: "https://www.coursera.org/user/{username}"},
	{Label: "Udemy", URL: "https://www.udemy.com/user/{username}"},
	// Entertainment and Media
	{Label: "Goodreads", URL: "https://www.goodreads.com/{username}"},
	{Label: "Letterboxd", URL: "https://letterboxd.com/{username}"},
	{Label: "MyAnimeList", URL: "https://myanimelist.net/profile/{username}"},
	{Label: "AniList", URL: "https://anilist.co/user/{username}"},
	{Label: "Crunchyroll", URL: "https://www.crunchyroll.com/user/{username}"},
	{Label: "Wattpad", URL: "https://www.wattpad.com/user/{username}"},
	{Label: "Archive of Our Own", URL: "https://archiveofourown.org/users/{username}"},
	// Sports and Fitness
	{Label: "Strava", URL: "https://www.strava.com/athletes/{username}"},
	{Label: "Chess.com", URL: "https://www.chess.com/member/{username}", Kind: domain.ProbeJSONAPI, APIURL: "https://api.chess.com/pub/player/{username}"},
	{Label: "Lichess", URL: "https://lichess.org/@/{username}", Kind: domain.ProbeJSONAPI, APIURL: "https://lichess.org/api/user/{username}"},
	{Label: "Untappd", URL: "https://untappd.com/user/{username}"},
	{Label: "MyFitnessPal", URL: "https://www.myfitnesspal.com/profile/{username}"},
}
